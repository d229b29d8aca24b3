package model

// ThreadState is one Triple-Helix thread's seed assignment and cursor.
type ThreadState struct {
	SeedOrder         []string
	CurrentSeedIndex  int
	CurrentSeedID     string
	CurrentLegoIndex  int
	IntroducedSeedIDs map[string]bool
}

// HelixState is the TripleHelixEngine's full persisted state: which
// thread is active and each thread's cursor.
type HelixState struct {
	ActiveThread int
	Threads      map[int]*ThreadState
}
