package iec104

// init populates DefaultRegistry with the monitor-direction types every
// conformant outstation is expected to source: single- and double-point
// information, normalized and short-floating-point measured values, and
// their time-tagged single-point variant.
func init() {
	DefaultRegistry.RegisterType(MSpNa1, ValueCodec{
		Len:    1,
		Decode: decodeSinglePointValue,
		Encode: encodeSinglePointValue,
	})
	DefaultRegistry.RegisterType(MDpNa1, ValueCodec{
		Len:    1,
		Decode: decodeDoublePointValue,
		Encode: encodeDoublePointValue,
	})
	DefaultRegistry.RegisterType(MMeNa1, ValueCodec{
		Len:    3,
		Decode: decodeNormalizedValue,
		Encode: encodeNormalizedValue,
	})
	DefaultRegistry.RegisterType(MMeNc1, ValueCodec{
		Len:    5,
		Decode: decodeMeasuredFloatValue,
		Encode: encodeMeasuredFloatValue,
	})
	DefaultRegistry.RegisterType(MSpTb1, ValueCodec{
		Len:    8,
		Decode: decodeTimeTaggedSinglePointValue,
		Encode: encodeTimeTaggedSinglePointValue,
	})
}
