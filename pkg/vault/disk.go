package vault

import (
	"fmt"
)

// Disk capacity thresholds
const (
	MinDiskSpaceBytes  = 1024 * 1024 // 1 MB minimum free space before a write
	DiskWarningPercent = 90          // Warn when disk is 90% full
)

// DiskSpaceInfo contains disk space information for the store directory
type DiskSpaceInfo struct {
	Total     uint64 `json:"total"`     // Total disk space in bytes
	Free      uint64 `json:"free"`      // Free disk space in bytes
	Available uint64 `json:"available"` // Available to non-root users
	UsedPct   int    `json:"used_pct"`  // Percentage of disk used
}

// checkDiskSpaceForWrite refuses a write when the store's filesystem is nearly full.
// Failing to read disk stats does not block the write.
func (s *Store) checkDiskSpaceForWrite(dataSize int) error {
	info, err := s.CheckDiskSpace()
	if err != nil {
		s.diag.Warn().Err(err).Str("store", s.path).Msg("failed to check disk space")
		return nil
	}

	// Need at least MinDiskSpaceBytes or 2x the data size, whichever is larger
	required := uint64(MinDiskSpaceBytes)
	if uint64(dataSize*2) > required {
		required = uint64(dataSize * 2)
	}

	if info.Available < required {
		return fmt.Errorf("%w: only %d bytes available, need at least %d",
			ErrInsufficientDisk, info.Available, required)
	}

	if info.UsedPct >= DiskWarningPercent {
		s.diag.Warn().Int("used_pct", info.UsedPct).Str("store", s.path).Msg("disk is almost full")
	}

	return nil
}
