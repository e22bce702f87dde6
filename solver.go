package kin

import "math"

func applyImpulse(body *Body, j, r Vector) {
	body.v = body.v.Add(j.Mult(body.m_inv))
	body.w += body.i_inv * r.Cross(j)
}

func applyImpulses(a, b *Body, r1, r2, j Vector) {
	applyImpulse(a, j.Neg(), r1)
	applyImpulse(b, j, r2)
}

func relativeVelocity(a, b *Body, r1, r2 Vector) Vector {
	v1Sum := a.v.Add(r1.Perp().Mult(a.w))
	v2Sum := b.v.Add(r2.Perp().Mult(b.w))
	return v2Sum.Sub(v1Sum)
}

func kScalarBody(body *Body, r, n Vector) float64 {
	rcn := r.Cross(n)
	return body.m_inv + body.i_inv*rcn*rcn
}

func kScalar(a, b *Body, r1, r2, n Vector) float64 {
	return kScalarBody(a, r1, n) + kScalarBody(b, r2, n)
}

func biasCoef(errorBias, dt float64) float64 {
	return 1.0 - math.Pow(errorBias, dt)
}
