package iec104

// init populates DefaultRegistry with the control-direction and system
// command types every conformant controlling station is expected to
// issue: single and double commands, general interrogation, and clock
// synchronization.
func init() {
	DefaultRegistry.RegisterType(CScNa1, ValueCodec{
		Len:    1,
		Decode: decodeSingleCommandValue,
		Encode: encodeSingleCommandValue,
	})
	DefaultRegistry.RegisterType(CDcNa1, ValueCodec{
		Len:    1,
		Decode: decodeDoubleCommandValue,
		Encode: encodeDoubleCommandValue,
	})
	DefaultRegistry.RegisterType(CIcNa1, ValueCodec{
		Len:    1,
		Decode: decodeInterrogationValue,
		Encode: encodeInterrogationValue,
	})
	DefaultRegistry.RegisterType(CCsNa1, ValueCodec{
		Len:    7,
		Decode: decodeClockSyncValue,
		Encode: encodeClockSyncValue,
	})
}
