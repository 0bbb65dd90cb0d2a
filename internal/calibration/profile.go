package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/strassen"
	"github.com/agbru/matcalc/internal/sysmon"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout changes;
	// older profiles are ignored.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is the profile file in the user's home.
	DefaultProfileFileName = ".matcalc_calibration.json"
	// ProfileMaxAge is how long a profile is trusted.
	ProfileMaxAge = 30 * 24 * time.Hour
)

// Profile is the persisted result of a calibration run, tied to the
// hardware and toolchain it was measured on.
type Profile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU      int    `json:"num_cpu"`
	GOARCH      string `json:"goarch"`
	GOOS        string `json:"goos"`
	GoVersion   string `json:"go_version"`
	CPUFeatures string `json:"cpu_features"`

	OptimalLeafSize   int `json:"optimal_leaf_size"`
	OptimalSpawnDepth int `json:"optimal_spawn_depth"`

	CalibrationN    int    `json:"calibration_n"`
	CalibrationTime string `json:"calibration_time"`
}

// NewProfile returns an empty profile stamped with the current host.
func NewProfile() *Profile {
	return &Profile{
		ProfileVersion:    CurrentProfileVersion,
		CalibratedAt:      time.Now(),
		NumCPU:            runtime.NumCPU(),
		GOARCH:            runtime.GOARCH,
		GOOS:              runtime.GOOS,
		GoVersion:         runtime.Version(),
		CPUFeatures:       sysmon.CPUFeatures(),
		OptimalLeafSize:   strassen.DefaultLeafSize,
		OptimalSpawnDepth: config.EstimateSpawnDepth(),
	}
}

// IsValid reports whether the profile was measured on this host layout.
func (p *Profile) IsValid() bool {
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.GOOS == runtime.GOOS &&
		p.OptimalLeafSize >= 1
}

// IsStale reports whether the profile is older than maxAge.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *Profile) String() string {
	return fmt.Sprintf("leaf=%d spawn-depth=%d (n=%d, %d CPUs, %s/%s, calibrated %s)",
		p.OptimalLeafSize, p.OptimalSpawnDepth, p.CalibrationN, p.NumCPU, p.GOOS, p.GOARCH,
		p.CalibratedAt.Format(time.RFC3339))
}

// SaveProfile writes the profile as JSON, replacing path atomically.
func (p *Profile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh one and
// false when it is missing, unreadable or measured on other hardware.
func LoadOrCreateProfile(path string) (*Profile, bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}

// LoadCachedProfile returns the profile at path when it is valid and fresh.
func LoadCachedProfile(path string) (*Profile, bool) {
	p, ok := LoadOrCreateProfile(path)
	if !ok || p.IsStale(ProfileMaxAge) {
		return nil, false
	}
	return p, true
}

// GetDefaultProfilePath returns ~/.matcalc_calibration.json, or the file
// name alone when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// ResolveProfilePath returns configured, or the default path when empty.
func ResolveProfilePath(configured string) string {
	if configured != "" {
		return configured
	}
	return GetDefaultProfilePath()
}

// ApplyProfile fills the tuning the user left unset from p.
func ApplyProfile(cfg config.AppConfig, p *Profile) config.AppConfig {
	if p == nil {
		return cfg
	}
	if !cfg.LeafSizeExplicit {
		cfg.LeafSize = p.OptimalLeafSize
	}
	if cfg.SpawnDepth == strassen.AdaptiveSpawnDepth {
		cfg.SpawnDepth = p.OptimalSpawnDepth
	}
	return cfg
}
