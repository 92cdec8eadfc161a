package sitscan

// Config tunes the Scanner's ignore rules and binary classification, and
// the Differ's patch-vs-write threshold. The hard-coded defaults
// (*.sit, node_modules/, .git/, .DS_Store) always apply regardless of
// Config; ExtraIgnores only adds to them.
type Config struct {
	// ExtraIgnores are additional gitignore-style glob patterns (matched
	// against both the basename and the full repository-relative path,
	// with "**" wildcard support) that the Scanner skips on top of its
	// built-in defaults.
	ExtraIgnores []string

	// BinaryExtensions is the fixed set of lowercase file extensions
	// (including the leading dot, e.g. ".png") the Scanner treats as
	// binary without probing content.
	BinaryExtensions map[string]struct{}

	// BinaryProbeBytes is how many leading bytes of a file the Scanner
	// inspects for a zero byte when the extension alone doesn't decide
	// binary-ness.
	BinaryProbeBytes int

	// PatchThresholdRatio is the use-patch heuristic's changed-fraction
	// ceiling (exclusive): a patch is preferred over a full write when the
	// changed character count is under this fraction of the old content's
	// length. Defaults to 0.5, matching sitpatch.ShouldUsePatch.
	PatchThresholdRatio float64
}

// defaultBinaryExtensions lists common binary file formats the Scanner
// classifies without needing to probe their content.
func defaultBinaryExtensions() map[string]struct{} {
	exts := []string{
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp", ".tiff",
		".pdf", ".zip", ".gz", ".tgz", ".tar", ".bz2", ".xz", ".7z", ".rar",
		".exe", ".dll", ".so", ".dylib", ".a", ".o", ".bin", ".class", ".wasm",
		".mp3", ".mp4", ".mov", ".avi", ".mkv", ".wav", ".flac", ".ogg",
		".woff", ".woff2", ".ttf", ".otf", ".eot",
		".sqlite", ".sqlite3", ".db",
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[e] = struct{}{}
	}
	return set
}

// DefaultConfig returns the Scanner/Differ defaults assumed when the
// caller supplies no overrides.
func DefaultConfig() Config {
	return Config{
		BinaryExtensions:    defaultBinaryExtensions(),
		BinaryProbeBytes:    8000,
		PatchThresholdRatio: 0.5,
	}
}

func (c Config) withDefaults() Config {
	if c.BinaryExtensions == nil {
		c.BinaryExtensions = defaultBinaryExtensions()
	}
	if c.BinaryProbeBytes <= 0 {
		c.BinaryProbeBytes = 8000
	}
	if c.PatchThresholdRatio <= 0 {
		c.PatchThresholdRatio = 0.5
	}
	return c
}
