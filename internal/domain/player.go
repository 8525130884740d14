package domain

// Player holds per-side bookkeeping that lives outside the location
// containers: identity and spendable currency (§3).
type Player struct {
	ID    PlayerId
	Thaum int
}
