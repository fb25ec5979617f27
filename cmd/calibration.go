package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hank-transition/hank-transition/sim"
	"github.com/hank-transition/hank-transition/sim/household"
)

// Calibration represents the full calibration.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Calibration struct {
	Params    ParamsConfig     `yaml:"params"`
	Household household.Config `yaml:"household"`
	Shock     ShockConfig      `yaml:"shock"`
	Solver    SolverSettings   `yaml:"solver"`
}

// ParamsConfig is the model parameter set. The asset grid is either listed
// explicitly or spread uniformly over [asset_min, asset_max] with nk points.
type ParamsConfig struct {
	NK         int       `yaml:"nk"`
	NZ         int       `yaml:"nz"`
	Beta       float64   `yaml:"beta"`
	Psi        float64   `yaml:"psi"`
	Theta      float64   `yaml:"theta"`
	Mu         float64   `yaml:"mu"`
	TaxWeights []float64 `yaml:"tax_weights"`
	AssetGrid  []float64 `yaml:"asset_grid"`
	AssetMin   float64   `yaml:"asset_min"`
	AssetMax   float64   `yaml:"asset_max"`
}

type ShockConfig struct {
	Horizon int     `yaml:"horizon"`
	Period  int     `yaml:"period"`
	Size    float64 `yaml:"size"`
	Length  int     `yaml:"length"`
	RBar    float64 `yaml:"rbar"`
}

type SolverSettings struct {
	MaxOuter int     `yaml:"max_outer"`
	MaxInner int     `yaml:"max_inner"`
	STol     float64 `yaml:"s_tol"`
	WTol     float64 `yaml:"w_tol"`
	Damping  float64 `yaml:"damping"`
	Policy   string  `yaml:"policy"`
}

// loadCalibration parses a calibration file with strict field checking:
// a misspelled key is an error rather than a silently ignored setting.
func loadCalibration(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration %s: %w", path, err)
	}
	var cal Calibration
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cal); err != nil {
		return nil, fmt.Errorf("parse calibration %s: %w", path, err)
	}
	return &cal, nil
}

// SimParams converts the parameter section. NB always equals NK.
func (c ParamsConfig) SimParams() sim.Params {
	grid := c.AssetGrid
	if len(grid) == 0 && c.NK > 1 {
		grid = make([]float64, c.NK)
		for i := range grid {
			grid[i] = c.AssetMin + (c.AssetMax-c.AssetMin)*float64(i)/float64(c.NK-1)
		}
	}
	return sim.Params{
		NK:         c.NK,
		NZ:         c.NZ,
		NB:         c.NK,
		Beta:       c.Beta,
		Psi:        c.Psi,
		Theta:      c.Theta,
		Mu:         c.Mu,
		TaxWeights: append([]float64(nil), c.TaxWeights...),
		AssetGrid:  append([]float64(nil), grid...),
	}
}

// ShockSpec converts the shock section.
func (c ShockConfig) ShockSpec() sim.ShockSpec {
	return sim.ShockSpec{Horizon: c.Horizon, Period: c.Period, Size: c.Size, Length: c.Length, RBar: c.RBar}
}

// SolverConfig fills unset settings from sim.DefaultSolverConfig.
func (c SolverSettings) SolverConfig() sim.SolverConfig {
	cfg := sim.DefaultSolverConfig()
	if c.MaxOuter != 0 {
		cfg.MaxOuter = c.MaxOuter
	}
	if c.MaxInner != 0 {
		cfg.MaxInner = c.MaxInner
	}
	if c.STol != 0 {
		cfg.STol = c.STol
	}
	if c.WTol != 0 {
		cfg.WTol = c.WTol
	}
	if c.Damping != 0 {
		cfg.Damping = c.Damping
	}
	if c.Policy != "" {
		cfg.Policy = sim.NonConvergencePolicy(c.Policy)
	}
	return cfg
}

// buildEconomy constructs the household block and its steady state.
func buildEconomy(cal *Calibration) (*household.Economy, error) {
	if !(cal.Shock.RBar > 0) {
		return nil, fmt.Errorf("shock.rbar must be positive, got %g", cal.Shock.RBar)
	}
	return household.New(cal.Household, cal.Params.SimParams(), cal.Shock.RBar)
}
