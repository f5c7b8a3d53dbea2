package iec104

import "testing"

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	if reg.Registered(MSpNa1) {
		t.Fatal("new registry should start empty")
	}
	reg.RegisterType(MSpNa1, ValueCodec{
		Len:    1,
		Decode: decodeSinglePointValue,
		Encode: encodeSinglePointValue,
	})
	if !reg.Registered(MSpNa1) {
		t.Fatal("expected MSpNa1 to be registered")
	}
	codec, ok := reg.lookup(MSpNa1)
	if !ok || codec.Len != 1 {
		t.Fatalf("lookup() = %+v, %v", codec, ok)
	}
}

func TestRegistry_RegisterTypePanicsOnIncompleteCodec(t *testing.T) {
	cases := []ValueCodec{
		{Len: 0, Decode: decodeSinglePointValue, Encode: encodeSinglePointValue},
		{Len: 1, Decode: nil, Encode: encodeSinglePointValue},
		{Len: 1, Decode: decodeSinglePointValue, Encode: nil},
	}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for incomplete codec %+v", c)
				}
			}()
			NewRegistry().RegisterType(MSpNa1, c)
		}()
	}
}

func TestDefaultRegistry_HasMandatoryTypes(t *testing.T) {
	mandatory := []TypeID{MSpNa1, MDpNa1, MMeNa1, MMeNc1, MSpTb1, CScNa1, CDcNa1, CIcNa1, CCsNa1}
	for _, id := range mandatory {
		if !DefaultRegistry.Registered(id) {
			t.Errorf("DefaultRegistry missing mandatory type %s", id)
		}
	}
}
