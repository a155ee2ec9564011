package model

// OwnerKind says which of the effective ids a process reported.
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerUserOnly
	OwnerGroupOnly
	OwnerBoth
)

// Owner is the effective user/group of a process, evaluated once.
type Owner struct {
	Kind OwnerKind
	UID  uint32
	GID  uint32
}

// Owner collapses EUID/EGID presence into one of four kinds.
func (p Process) Owner() Owner {
	switch {
	case p.EUID != nil && p.EGID != nil:
		return Owner{Kind: OwnerBoth, UID: *p.EUID, GID: *p.EGID}
	case p.EUID != nil:
		return Owner{Kind: OwnerUserOnly, UID: *p.EUID}
	case p.EGID != nil:
		return Owner{Kind: OwnerGroupOnly, GID: *p.EGID}
	default:
		return Owner{Kind: OwnerNone}
	}
}
