package crypto

// isaacGolden is the golden ratio constant every ISAAC state starts from.
const isaacGolden = 0x9e3779b9

// isaacSize is the number of words in the internal state and result block.
const isaacSize = 256

// SeedOffset separates the inbound and outbound keystreams derived from one
// session seed: the encoder is seeded with every session word plus this value.
const SeedOffset = 50

// ISAAC is the keystream generator used to obfuscate opcodes.
// Both peers run an identical instance per direction; any out-of-order
// consumption desynchronizes every opcode that follows.
//
// Not safe for concurrent use: each instance has exactly one owner.
type ISAAC struct {
	mem   [isaacSize]uint32
	rsl   [isaacSize]uint32
	a     uint32
	b     uint32
	c     uint32
	count int
}

// NewISAAC creates a keystream seeded with up to 256 words.
func NewISAAC(seed []uint32) *ISAAC {
	r := &ISAAC{}
	copy(r.rsl[:], seed)
	r.init()
	return r
}

// NewCipherPair derives the inbound decoder and outbound encoder
// from the four session seed words.
func NewCipherPair(seed [4]uint32) (decoder, encoder *ISAAC) {
	decoder = NewISAAC(seed[:])

	var shifted [4]uint32
	for i, w := range seed {
		shifted[i] = w + SeedOffset
	}
	encoder = NewISAAC(shifted[:])
	return decoder, encoder
}

// NextValue pops the next keystream word as a signed 32-bit value.
// A fresh block of 256 words is generated when the current one is exhausted.
func (r *ISAAC) NextValue() int32 {
	if r.count == 0 {
		r.generate()
		r.count = isaacSize
	}
	r.count--
	return int32(r.rsl[r.count])
}

func (r *ISAAC) generate() {
	r.c++
	r.b += r.c
	for i := range isaacSize {
		x := r.mem[i]
		switch i & 3 {
		case 0:
			r.a ^= r.a << 13
		case 1:
			r.a ^= r.a >> 6
		case 2:
			r.a ^= r.a << 2
		case 3:
			r.a ^= r.a >> 16
		}
		r.a += r.mem[(i+128)&0xff]
		y := r.mem[(x>>2)&0xff] + r.a + r.b
		r.mem[i] = y
		r.b = r.mem[(y>>10)&0xff] + x
		r.rsl[i] = r.b
	}
}

func (r *ISAAC) init() {
	var s [8]uint32
	for i := range s {
		s[i] = isaacGolden
	}
	for range 4 {
		mix(&s)
	}

	for _, src := range [2]*[isaacSize]uint32{&r.rsl, &r.mem} {
		for i := 0; i < isaacSize; i += 8 {
			for j := range s {
				s[j] += src[i+j]
			}
			mix(&s)
			copy(r.mem[i:i+8], s[:])
		}
	}

	r.generate()
	r.count = isaacSize
}

// mix is the eight-word avalanche network of the ISAAC initializer.
func mix(s *[8]uint32) {
	a, b, c, d, e, f, g, h := s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7]
	a ^= b << 11
	d += a
	b += c
	b ^= c >> 2
	e += b
	c += d
	c ^= d << 8
	f += c
	d += e
	d ^= e >> 16
	g += d
	e += f
	e ^= f << 10
	h += e
	f += g
	f ^= g >> 4
	a += f
	g += h
	g ^= h << 8
	b += g
	h += a
	h ^= a >> 9
	c += h
	a += b
	s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7] = a, b, c, d, e, f, g, h
}
