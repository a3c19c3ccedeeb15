// Package share models TrueNAS NFS share records and the rules that decide
// whether a share is owned by recursive-nfs.
package share

import "strings"

const (
	// DefaultMountPrefix is the mount root every TrueNAS dataset lives under.
	DefaultMountPrefix = "/mnt/"

	// AutoCreatedSuffix marks a share comment as managed by recursive-nfs.
	// Matching is exact and case-sensitive.
	AutoCreatedSuffix = "(automatically created by recursive-nfs)"
)

// Share is one NFS export record as returned by the /sharing/nfs endpoint.
//
// ID is zero for shares that have not been persisted yet. Locked is assigned by
// the appliance and is never sent back (see Request).
type Share struct {
	ID           int      `json:"id,omitempty" yaml:"id,omitempty"`
	Path         string   `json:"path" yaml:"path"`
	Aliases      []string `json:"aliases" yaml:"aliases"`
	Comment      string   `json:"comment" yaml:"comment"`
	Hosts        []string `json:"hosts" yaml:"hosts"`
	RO           bool     `json:"ro" yaml:"ro"`
	MaprootUser  *string  `json:"maproot_user" yaml:"maproot_user"`
	MaprootGroup *string  `json:"maproot_group" yaml:"maproot_group"`
	MapallUser   *string  `json:"mapall_user" yaml:"mapall_user"`
	MapallGroup  *string  `json:"mapall_group" yaml:"mapall_group"`
	Security     []string `json:"security" yaml:"security"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	Networks     []string `json:"networks" yaml:"networks"`
	Locked       *bool    `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// ShareRequest is the create/update payload. It mirrors Share without the
// server-owned id and locked fields.
type ShareRequest struct {
	Path         string   `json:"path"`
	Aliases      []string `json:"aliases"`
	Comment      string   `json:"comment"`
	Hosts        []string `json:"hosts"`
	RO           bool     `json:"ro"`
	MaprootUser  *string  `json:"maproot_user"`
	MaprootGroup *string  `json:"maproot_group"`
	MapallUser   *string  `json:"mapall_user"`
	MapallGroup  *string  `json:"mapall_group"`
	Security     []string `json:"security"`
	Enabled      bool     `json:"enabled"`
	Networks     []string `json:"networks"`
}

// ComputePathName strips mountPrefix from path. Paths outside the mount root
// are returned unchanged.
func ComputePathName(path, mountPrefix string) string {
	return strings.TrimPrefix(path, mountPrefix)
}

// PathName returns the dataset identifier this share exports.
func (s *Share) PathName(mountPrefix string) string {
	return ComputePathName(s.Path, mountPrefix)
}

// IsAutoCreated reports whether the share carries the recursive-nfs marker.
func (s *Share) IsAutoCreated() bool {
	return IsAutoCreated(s.Comment)
}

// HasID reports whether the share has been persisted on the appliance.
func (s *Share) HasID() bool {
	return s.ID != 0
}

// Request builds the wire payload for create and update calls. Nil lists are
// sent as empty arrays since the appliance rejects null list fields.
func (s *Share) Request() *ShareRequest {
	return &ShareRequest{
		Path:         s.Path,
		Aliases:      nonNil(s.Aliases),
		Comment:      s.Comment,
		Hosts:        nonNil(s.Hosts),
		RO:           s.RO,
		MaprootUser:  s.MaprootUser,
		MaprootGroup: s.MaprootGroup,
		MapallUser:   s.MapallUser,
		MapallGroup:  s.MapallGroup,
		Security:     nonNil(s.Security),
		Enabled:      s.Enabled,
		Networks:     nonNil(s.Networks),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// FilterByPathName returns the shares whose path name is (or is not, when
// member is false) contained in pathNames. Input order is preserved.
func FilterByPathName(shares []Share, mountPrefix string, pathNames map[string]struct{}, member bool) []Share {
	var out []Share
	for _, s := range shares {
		_, ok := pathNames[s.PathName(mountPrefix)]
		if ok == member {
			out = append(out, s)
		}
	}
	return out
}
