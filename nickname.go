package memberauth

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var nicknameAdjectives = []string{
	"Brave", "Calm", "Clever", "Curious", "Eager",
	"Gentle", "Happy", "Keen", "Lively", "Lucky",
	"Mellow", "Nimble", "Quiet", "Sunny", "Swift",
	"Tidy", "Vivid", "Warm", "Wise", "Witty",
}

var nicknameNouns = []string{
	"Badger", "Falcon", "Fox", "Heron", "Lynx",
	"Maple", "Otter", "Owl", "Panda", "Pine",
	"Quokka", "Raven", "Seal", "Sparrow", "Tiger",
	"Walrus", "Whale", "Willow", "Wolf", "Wren",
}

// MaxNicknameAttempts bounds the natural language retries before the
// provisioner falls back to a guaranteed unique scheme.
const MaxNicknameAttempts = 3

const fallbackNicknamePrefix = "member_"

// NicknameProvisioner generates display names for members provisioned
// through a social login. Generated names are human readable but not
// unique by construction; callers retry on uniqueness violations and
// use Fallback once the retries are exhausted.
type NicknameProvisioner struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewNicknameProvisioner creates a provisioner from a random source.
// Pass a seeded source in tests to make generation deterministic; a nil
// source falls back to a time seeded one.
func NewNicknameProvisioner(source rand.Source) *NicknameProvisioner {
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}
	return &NicknameProvisioner{
		rnd: rand.New(source),
	}
}

// Generate combines random word fragments into a display name
func (p *NicknameProvisioner) Generate() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	adjective := nicknameAdjectives[p.rnd.Intn(len(nicknameAdjectives))]
	noun := nicknameNouns[p.rnd.Intn(len(nicknameNouns))]
	n := p.rnd.Intn(1000)

	return fmt.Sprintf("%s%s%d", adjective, noun, n)
}

// Fallback returns a nickname with no natural language collision risk:
// a fixed prefix plus a random identifier fragment.
func (p *NicknameProvisioner) Fallback() string {
	return fallbackNicknamePrefix + uuid.NewString()[:8]
}
