package consistency

// Canonical order status vocabulary. Historically the admin list view and
// the order-detail view used two overlapping label sets ("in_production" vs
// "processing", "delivered" vs "completed"); the canonical set below is the
// single vocabulary going forward, with the legacy labels normalized on read.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// legacyStatus maps labels that may still exist in stored orders onto the
// canonical vocabulary.
var legacyStatus = map[string]string{
	"in_production": StatusProcessing,
	"delivered":     StatusCompleted,
}

// statusRank orders the linear progression. Cancelled sits outside it.
var statusRank = map[string]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusCompleted:  4,
}

// CanonicalStatus maps any stored label onto the canonical vocabulary.
// Unknown labels pass through unchanged.
func CanonicalStatus(s string) string {
	if mapped, ok := legacyStatus[s]; ok {
		return mapped
	}
	return s
}

// ValidStatus reports whether s is a canonical or legacy status label.
func ValidStatus(s string) bool {
	s = CanonicalStatus(s)
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no further status transition is allowed.
// Deletion remains possible from any state; it is a separate operation.
func IsTerminal(s string) bool {
	s = CanonicalStatus(s)
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether the status-transition operation may move an
// order from one status to another: forward along the progression, or to
// cancelled from any non-terminal state. Admin direct assignment does not go
// through this check.
func CanTransition(from, to string) bool {
	from, to = CanonicalStatus(from), CanonicalStatus(to)

	if IsTerminal(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}

	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
