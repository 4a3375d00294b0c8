package board

// Fingerprint tables. Two boards agree on their fingerprint only if both
// sides use these exact tables, so they are derived from a fixed seed and
// must never change.
var (
	fingerprintPiece  [pieceTypeCount]uint32 // 0 for NoPieceType
	fingerprintSquare [64]uint32             // distinct odd constants
)

// fingerprintSeed is the starting value of every fingerprint.
const fingerprintSeed uint32 = 0x811C9DC5

func init() {
	initFingerprint()
}

// Simple PRNG for reproducible fingerprint constants
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// next32 returns the high half of the next output, forced odd.
func (p *prng) next32() uint32 {
	return uint32(p.next()>>32) | 1
}

func initFingerprint() {
	rng := newPRNG(0x9E3779B97F4A7C15) // Fixed seed

	for pt := King; pt < pieceTypeCount; pt++ {
		fingerprintPiece[pt] = rng.next32()
	}
	for sq := A1; sq <= H8; sq++ {
		fingerprintSquare[sq] = rng.next32()
	}
}

// Fingerprint folds the piece layout of both planes into 32 bits. It is a
// sum of pieceConstant(kind) * squareConstant(square) over every square of
// both planes, wrapping modulo 2^32, so it does not depend on visiting order.
// It is meant for equality checks between two boards, not for security.
func Fingerprint(b *Board) uint32 {
	h := fingerprintSeed
	for sq := A1; sq <= H8; sq++ {
		h += fingerprintPiece[b.planes[White][sq]] * fingerprintSquare[sq]
		h += fingerprintPiece[b.planes[Black][sq]] * fingerprintSquare[sq]
	}
	return h
}

// Fingerprint returns the position fingerprint of b.
func (b *Board) Fingerprint() uint32 {
	return Fingerprint(b)
}
