package repos

// EntryType mirrors the git object type reported by the tree listing.
type EntryType string

const (
	EntryBlob   EntryType = "blob"
	EntryTree   EntryType = "tree"
	EntryCommit EntryType = "commit"
)

// TreeEntry is one raw row of the recursive tree listing.
type TreeEntry struct {
	Path string    `json:"path"`
	Type EntryType `json:"type"`
	Size int64     `json:"size"`
}

// Kind enum hasil klasifikasi
type Kind string

const (
	KindCode     Kind = "code"
	KindManifest Kind = "manifest"
	KindDoc      Kind = "doc"
	KindIgnored  Kind = "ignored"
)

// FileCandidate is derived once from a TreeEntry and never mutated.
type FileCandidate struct {
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	Kind      Kind   `json:"kind"`
	Extension string `json:"extension"`
}
