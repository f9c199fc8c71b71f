package ring

// ModExp performs the modular exponentiation x^e mod q,
// x and q are required to be at most 64 bits to avoid an overflow.
func ModExp(x, e, q uint64) (y uint64) {

	brc := GenBRedConstant(q)

	y = 1

	if q&1 == 1 && q > 2 {

		mrc := GenMRedConstant(q)

		y = MForm(y, q, brc)
		x = MForm(BRedAdd(x, q, brc), q, brc)

		for i := e; i > 0; i >>= 1 {
			if i&1 == 1 {
				y = MRed(y, x, q, mrc)
			}
			x = MRed(x, x, q, mrc)
		}

		return IMForm(y, q, mrc)
	}

	x = BRedAdd(x, q, brc)
	y = BRedAdd(y, q, brc)

	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			y = BRed(y, x, q, brc)
		}
		x = BRed(x, x, q, brc)
	}

	return
}

// ModInverse returns x^-1 mod q, for q prime.
func ModInverse(x, q uint64) uint64 {
	return ModExp(x, q-2, q)
}

// EvalPolyModP evaluates y = sum poly[i] * x^{i} mod p.
func EvalPolyModP(x uint64, poly []uint64, p uint64) (y uint64) {
	brc := GenBRedConstant(p)
	x = BRedAdd(x, p, brc)
	y = BRedAdd(poly[len(poly)-1], p, brc)
	for i := len(poly) - 2; i >= 0; i-- {
		y = BRed(y, x, p, brc)
		y = CRed(y+BRedAdd(poly[i], p, brc), p)
	}

	return
}
