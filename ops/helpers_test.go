package ops

import (
	"math/big"

	"github.com/bitfloat/fpbv/backend/concrete"
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/unpacked"
)

func hex32(be concrete.Backend, h uint32) unpacked.Unpacked {
	bv := be.ConstUBV(32, new(big.Int).SetUint64(uint64(h)))
	return unpacked.Unpack(be, core.Fmt32, bv)
}

func toHex32(be concrete.Backend, u unpacked.Unpacked) uint32 {
	return uint32(unpacked.Pack(be, u).H.(*big.Int).Uint64())
}

func propVal(p core.Prop) bool { return p.H.(bool) }
