package log

// Option applies a configuration option to config.
type Option func(config) config

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}

// locked returns a copy of c modified by fn while holding the write lock of
// the mutex shared with c.
func (c config) locked(fn func(*config)) config {
	if c.mutex == nil {
		c.mutex = newMutex()
	} else {
		c.mutex.Lock()
		defer c.mutex.Unlock()
	}

	fn(&c)

	return c
}
