package tetris

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// RandomizerKind selects a next-piece generation policy.
type RandomizerKind uint8

const (
	RandomizerSequential RandomizerKind = iota
	RandomizerFullRandom
	Randomizer7Bag
	RandomizerDefinedSequence
)

var randomizerNames = map[RandomizerKind]string{
	RandomizerSequential:      "sequential",
	RandomizerFullRandom:      "full_random",
	Randomizer7Bag:            "7bag",
	RandomizerDefinedSequence: "defined_sequence",
}

// String returns the config name of the randomizer kind.
func (k RandomizerKind) String() string {
	if s, ok := randomizerNames[k]; ok {
		return s
	}
	return fmt.Sprintf("RandomizerKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k RandomizerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RandomizerKind) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for kind, name := range randomizerNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("tetris: unknown randomizer %q", text)
}

// Randomizer produces an endless stream of piece variants.
type Randomizer interface {
	// Next returns the next variant and advances the generator.
	Next() Variant
	// Reset restarts the sequence from its original seed or cursor.
	Reset()
	// Seed returns the seed the sequence was created with.
	Seed() uint64
	// Kind returns the generation policy.
	Kind() RandomizerKind
}

// NewRandomizer builds a randomizer of the given kind. The sequence is only
// used by RandomizerDefinedSequence and must then be non-empty.
func NewRandomizer(kind RandomizerKind, seed uint64, sequence []Variant) (Randomizer, error) {
	switch kind {
	case RandomizerSequential:
		return &Sequential{}, nil
	case RandomizerFullRandom:
		return NewFullRandom(seed), nil
	case Randomizer7Bag:
		return NewBag(seed), nil
	case RandomizerDefinedSequence:
		return NewDefinedSequence(sequence)
	default:
		return nil, fmt.Errorf("tetris: unknown randomizer kind %d", kind)
	}
}

// newPCG expands a 64-bit seed into PCG state with splitmix64.
func newPCG(seed uint64) *rand.Rand {
	x := seed ^ 0x9e3779b97f4a7c15
	return rand.New(rand.NewPCG(splitmix64(x), splitmix64(x^0xDA942042E4DD58B5)))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Sequential cycles S, Z, J, L, O, I, T.
type Sequential struct {
	next int
}

func (s *Sequential) Next() Variant {
	v := AllVariants[s.next]
	s.next = (s.next + 1) % VariantCount
	return v
}

func (s *Sequential) Reset()               { s.next = 0 }
func (s *Sequential) Seed() uint64         { return 0 }
func (s *Sequential) Kind() RandomizerKind { return RandomizerSequential }

// FullRandom picks each variant uniformly and independently.
type FullRandom struct {
	seed uint64
	rng  *rand.Rand
}

// NewFullRandom creates a seeded uniform randomizer.
func NewFullRandom(seed uint64) *FullRandom {
	return &FullRandom{seed: seed, rng: newPCG(seed)}
}

func (r *FullRandom) Next() Variant {
	return AllVariants[r.rng.IntN(VariantCount)]
}

func (r *FullRandom) Reset()               { r.rng = newPCG(r.seed) }
func (r *FullRandom) Seed() uint64         { return r.seed }
func (r *FullRandom) Kind() RandomizerKind { return RandomizerFullRandom }

// Bag deals the seven variants in shuffled bags, each exactly once per bag.
type Bag struct {
	seed uint64
	rng  *rand.Rand
	bag  [VariantCount]Variant
	pos  int
}

// NewBag creates a seeded 7-bag randomizer.
func NewBag(seed uint64) *Bag {
	b := &Bag{seed: seed}
	b.Reset()
	return b
}

func (b *Bag) Next() Variant {
	if b.pos >= VariantCount {
		b.refill()
	}
	v := b.bag[b.pos]
	b.pos++
	return v
}

// refill reshuffles the bag with Fisher-Yates.
func (b *Bag) refill() {
	b.bag = AllVariants
	for i := VariantCount - 1; i > 0; i-- {
		j := b.rng.IntN(i + 1)
		b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
	}
	b.pos = 0
}

func (b *Bag) Reset() {
	b.rng = newPCG(b.seed)
	b.pos = VariantCount
}

func (b *Bag) Seed() uint64         { return b.seed }
func (b *Bag) Kind() RandomizerKind { return Randomizer7Bag }

// DefinedSequence cycles through a fixed list. Used for previews and tests.
type DefinedSequence struct {
	sequence []Variant
	pos      int
}

// NewDefinedSequence creates a cycling randomizer over sequence.
func NewDefinedSequence(sequence []Variant) (*DefinedSequence, error) {
	if len(sequence) == 0 {
		return nil, fmt.Errorf("tetris: defined sequence randomizer needs at least one piece")
	}
	for _, v := range sequence {
		if !v.Valid() {
			return nil, fmt.Errorf("tetris: defined sequence contains invalid variant %d", v)
		}
	}
	seq := make([]Variant, len(sequence))
	copy(seq, sequence)
	return &DefinedSequence{sequence: seq}, nil
}

func (d *DefinedSequence) Next() Variant {
	v := d.sequence[d.pos]
	d.pos = (d.pos + 1) % len(d.sequence)
	return v
}

func (d *DefinedSequence) Reset()               { d.pos = 0 }
func (d *DefinedSequence) Seed() uint64         { return 0 }
func (d *DefinedSequence) Kind() RandomizerKind { return RandomizerDefinedSequence }
