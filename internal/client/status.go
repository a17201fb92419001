// ABOUTME: Borrow request status values and the transitions the server allows
// ABOUTME: Used only to gate actions in the UI; the server stays authoritative

package client

// BorrowStatus is the server-owned state of a borrow request
type BorrowStatus string

const (
	StatusPending  BorrowStatus = "pending"
	StatusApproved BorrowStatus = "approved"
	StatusRejected BorrowStatus = "rejected"
	StatusReturned BorrowStatus = "returned"
	StatusNeedEdit BorrowStatus = "need_edit"
)

// BorrowStatuses lists every known status in display order
var BorrowStatuses = []BorrowStatus{
	StatusPending,
	StatusNeedEdit,
	StatusApproved,
	StatusReturned,
	StatusRejected,
}

// Valid reports whether s is a known status
func (s BorrowStatus) Valid() bool {
	for _, known := range BorrowStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible
func (s BorrowStatus) Terminal() bool {
	return s == StatusRejected || s == StatusReturned
}

// CanApprove reports whether an admin may approve the request
func (s BorrowStatus) CanApprove() bool {
	return s == StatusPending
}

// CanReject reports whether an admin may reject the request, with or without requiring edits
func (s BorrowStatus) CanReject() bool {
	return s == StatusPending
}

// CanReturn reports whether the borrowed books may be marked returned
func (s BorrowStatus) CanReturn() bool {
	return s == StatusApproved
}

// CanEdit reports whether the owner may still edit the request
func (s BorrowStatus) CanEdit() bool {
	return s == StatusPending || s == StatusNeedEdit
}

// CanDelete reports whether the request may be deleted
func (s BorrowStatus) CanDelete() bool {
	return s == StatusPending || s == StatusNeedEdit || s == StatusRejected
}

// Label returns the localized display label. A nil catalog means Vietnamese.
func (s BorrowStatus) Label(m *Messages) string {
	if m == nil {
		m = Vietnamese
	}
	return m.StatusLabel(s)
}
