// SPDX-License-Identifier: Apache-2.0

package fieldcaps

type Config struct {
	// SnapshotWorkers bounds how many per-index schema fetches a single
	// request dispatches concurrently.
	SnapshotWorkers uint
}

const defaultSnapshotWorkers = 4

func (c *Config) snapshotWorkers() uint {
	if c != nil && c.SnapshotWorkers > 0 {
		return c.SnapshotWorkers
	}
	return defaultSnapshotWorkers
}
