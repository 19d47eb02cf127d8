package classify

import (
	"fmt"
	"sync"
)

// DetectorFunc scores one cipher family against the measured signals. It
// returns nil when the signals give no support for the family.
type DetectorFunc func(s *Signals) *FamilyCandidate

type registration struct {
	family Family
	detect DetectorFunc
}

var (
	registryMu sync.RWMutex
	// registry keeps registration order: detectors run in this order and
	// it breaks confidence ties in the final ranking.
	registry []registration
)

// RegisterDetector adds a family detector. Returns an error if the family
// is empty, the detector is nil, or the family is already registered.
func RegisterDetector(family Family, detect DetectorFunc) error {
	if family == "" {
		return fmt.Errorf("detector family cannot be empty")
	}
	if detect == nil {
		return fmt.Errorf("detector for family %s cannot be nil", family)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	for _, reg := range registry {
		if reg.family == family {
			return fmt.Errorf("detector for family %s is already registered", family)
		}
	}
	registry = append(registry, registration{family: family, detect: detect})
	return nil
}

// UnregisterDetector removes a registered detector.
func UnregisterDetector(family Family) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	for i, reg := range registry {
		if reg.family == family {
			registry = append(registry[:i], registry[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("detector for family %s is not registered", family)
}

// ListDetectors returns the registered families in registration order.
func ListDetectors() []Family {
	registryMu.RLock()
	defer registryMu.RUnlock()

	families := make([]Family, len(registry))
	for i, reg := range registry {
		families[i] = reg.family
	}
	return families
}

// registeredDetectors snapshots the registry for one classification run.
func registeredDetectors() []registration {
	registryMu.RLock()
	defer registryMu.RUnlock()

	snapshot := make([]registration, len(registry))
	copy(snapshot, registry)
	return snapshot
}

func mustRegister(family Family, detect DetectorFunc) {
	if err := RegisterDetector(family, detect); err != nil {
		panic(err)
	}
}

func init() {
	mustRegister(FamilyMonoalphabetic, detectMonoalphabetic)
	mustRegister(FamilyCaesar, detectCaesar)
	mustRegister(FamilyVigenere, detectVigenere)
	mustRegister(FamilyTransposition, detectTransposition)
	mustRegister(FamilyRandom, detectRandom)
}
