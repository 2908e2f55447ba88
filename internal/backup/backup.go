package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/kv"
	"github.com/julianstephens/daylog/internal/logger"
)

const formatVersion = 1

var (
	ErrNothingToBackup = errors.New("storage has no data to back up")
	ErrInvalidBackup   = errors.New("backup file is corrupted or invalid")
)

// Export is the on-disk backup document. Slot values are kept verbatim so
// a restore reproduces exactly what the stores wrote.
type Export struct {
	Version   int               `json:"version"`
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Source    string            `json:"source"`
	Slots     map[string]string `json:"slots"`
}

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager exports and restores every slot of a backend
type Manager struct {
	backend   kv.Backend
	backupDir string
	now       func() time.Time
}

// NewManager creates a backup manager writing into <configDir>/backups
func NewManager(backend kv.Backend, configDir string) *Manager {
	return &Manager{
		backend:   backend,
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup writes a new export of the backend and rotates old ones
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation keeps the pre-restore safety backup from evicting the one being restored
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	export, err := m.export()
	if err != nil {
		return "", err
	}

	backupPath, err := m.uniquePath(export.CreatedAt)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// the backup itself succeeded
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}

	logger.Info("backup created", "path", backupPath, "slots", len(export.Slots))
	return backupPath, nil
}

func (m *Manager) export() (Export, error) {
	slots, err := m.backend.Slots()
	if err != nil {
		return Export{}, fmt.Errorf("failed to list slots: %w", err)
	}
	if len(slots) == 0 {
		return Export{}, ErrNothingToBackup
	}

	export := Export{
		Version:   formatVersion,
		ID:        uuid.New().String(),
		CreatedAt: m.now().UTC().Truncate(time.Second),
		Source:    m.backend.Location(),
		Slots:     make(map[string]string, len(slots)),
	}
	for _, slot := range slots {
		value, ok, err := m.backend.Read(slot)
		if err != nil {
			return Export{}, fmt.Errorf("failed to read slot %s: %w", slot, err)
		}
		if ok {
			export.Slots[slot] = value
		}
	}
	return export, nil
}

func (m *Manager) uniquePath(at time.Time) (string, error) {
	local := at.Local()
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	// minute precision first, then seconds, then a counter
	backupPath := name(local.Format("20060102-1504"))
	if _, err := os.Stat(backupPath); err != nil {
		return backupPath, nil
	}
	stamp := local.Format("20060102-150405")
	backupPath = name(stamp)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			return backupPath, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		backupPath = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		timestamp, ok := parseBackupName(name)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseBackupName extracts the timestamp of daylog-YYYYMMDD-HHMM[SS][-N].json
func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		// drop the collision counter
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// ReadBackup loads and validates a backup file
func ReadBackup(path string) (Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Export{}, fmt.Errorf("failed to read backup: %w", err)
	}
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return Export{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if export.Version != formatVersion {
		return Export{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidBackup, export.Version)
	}
	if len(export.Slots) == 0 {
		return Export{}, fmt.Errorf("%w: no slots", ErrInvalidBackup)
	}
	for slot, value := range export.Slots {
		if !json.Valid([]byte(value)) {
			return Export{}, fmt.Errorf("%w: slot %s is not valid JSON", ErrInvalidBackup, slot)
		}
	}
	return export, nil
}

// RestoreBackup writes every slot in the backup back to the backend. The
// current contents are exported first, and the path of that safety backup
// is returned (empty when the backend held nothing).
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	export, err := ReadBackup(backupPath)
	if err != nil {
		return "", err
	}

	safety, err := m.createBackup(true)
	if err != nil && !errors.Is(err, ErrNothingToBackup) {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	names := make([]string, 0, len(export.Slots))
	for slot := range export.Slots {
		names = append(names, slot)
	}
	sort.Strings(names)
	for _, slot := range names {
		if err := m.backend.Write(slot, export.Slots[slot]); err != nil {
			return safety, fmt.Errorf("failed to restore slot %s: %w", slot, err)
		}
	}

	logger.Info("backup restored", "path", backupPath, "slots", len(names))
	return safety, nil
}
