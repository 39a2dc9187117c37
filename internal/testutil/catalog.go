package testutil

import (
	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/langmode"
)

// Fixture feature names.
const (
	BaselineFeature     = "AsyncAwait"
	UpcomingFeature     = "DynamicActorIsolation"
	ValuedFeature       = "StrictConcurrency"
	AdoptableFeature    = "ExistentialAny"
	ExperimentalFeature = "NamedOpaqueTypes"
	AdoptableExperiment = "IsolatedDefaultValues"
)

// Fixture language modes. DefaultMode sits below every threshold.
var (
	DefaultMode   = langmode.MustParse("5")
	ThresholdMode = langmode.MustParse("6")
	FutureMode    = langmode.MustParse("7")
)

// FixtureFeatures returns the features of FixtureCatalog.
//
//	AsyncAwait             baseline
//	DynamicActorIsolation  upcoming, threshold 6
//	StrictConcurrency      upcoming, threshold 6, values minimal|targeted|complete
//	ExistentialAny         upcoming, threshold 7, adoptable
//	NamedOpaqueTypes       experimental
//	IsolatedDefaultValues  experimental, adoptable
func FixtureFeatures() []feature.Feature {
	return []feature.Feature{
		{Name: BaselineFeature, Tier: feature.TierBaseline},
		{Name: UpcomingFeature, Tier: feature.TierUpcoming, Threshold: ThresholdMode},
		{
			Name:      ValuedFeature,
			Tier:      feature.TierUpcoming,
			Threshold: ThresholdMode,
			Values:    []string{"minimal", "targeted", "complete"},
		},
		{Name: AdoptableFeature, Tier: feature.TierUpcoming, Threshold: FutureMode, Adoptable: true},
		{Name: ExperimentalFeature, Tier: feature.TierExperimental},
		{Name: AdoptableExperiment, Tier: feature.TierExperimental, Adoptable: true},
	}
}

// FixtureCatalog returns a small catalog covering every tier and modifier
// rule. Panics if the fixture is inconsistent.
func FixtureCatalog() *feature.Catalog {
	c, err := feature.NewCatalog(DefaultMode, FixtureFeatures()...)
	if err != nil {
		panic(err)
	}
	return c.WithModes(langmode.MustParse("4"), langmode.MustParse("4.2"), DefaultMode, ThresholdMode, FutureMode)
}
