package binstore

import "os"

// swap replaces the managed binary with new contents atomically. The new
// image is written beside the original, takes over its permissions, and the
// original survives as a .bak file until the next swap. A failed final
// rename puts the original back.
func (s *Store) swap(contents []byte) error {
	tempPath := s.path + ".new"
	backupPath := s.path + ".bak"

	info, err := os.Stat(s.path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, contents, info.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chmod(tempPath, info.Mode().Perm()); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(s.path, backupPath); err != nil {
		os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		// Put the original back so the user still has a working binary.
		if restoreErr := os.Rename(backupPath, s.path); restoreErr != nil {
			s.log.Errorf("failed to restore backup after swap failure: %v", restoreErr)
		}
		return err
	}

	s.log.Debugf("rewrote %s (%d bytes)", s.path, len(contents))

	if s.notify != nil {
		s.notify()
	}
	return nil
}
