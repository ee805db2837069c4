package plcache

// callConfig is the per-call view of the readable-projection settings,
// seeded from the instance configuration.
type callConfig struct {
	symlinksDir string
	split       bool
	trimArg     int
	linkName    string
	linkNameFn  LinkNameFunc
	entryNameFn EntryNameFunc
}

// CallOption overrides readable-projection settings for a single
// GetOrCompute call. Call options never affect the fingerprint: the same
// cache entry is hit regardless of how it is projected.
type CallOption func(*callConfig)

// CallWithSymlinksDir overrides the readable top-level directory name.
func CallWithSymlinksDir(name string) CallOption {
	return func(c *callConfig) {
		c.symlinksDir = name
	}
}

// CallWithSplit overrides the nested vs collapsed namespace layout.
func CallWithSplit(split bool) CallOption {
	return func(c *callConfig) {
		c.split = split
	}
}

// CallWithTrimArg overrides the per-argument truncation length.
func CallWithTrimArg(n int) CallOption {
	return func(c *callConfig) {
		c.trimArg = n
	}
}

// CallWithLinkName sets the symlink filename for this call. It takes
// precedence over every other link-name source.
func CallWithLinkName(name string) CallOption {
	return func(c *callConfig) {
		c.linkName = name
		c.linkNameFn = nil
	}
}

// CallWithLinkNameFunc sets a link-name callback for this call.
func CallWithLinkNameFunc(fn LinkNameFunc) CallOption {
	return func(c *callConfig) {
		c.linkName = ""
		c.linkNameFn = fn
	}
}

// CallWithEntryNameFunc overrides the terminal readable-path segment for
// this call.
func CallWithEntryNameFunc(fn EntryNameFunc) CallOption {
	return func(c *callConfig) {
		c.entryNameFn = fn
	}
}
