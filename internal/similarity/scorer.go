package similarity

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"lostfound-matching/internal/models"
	errs "lostfound-matching/pkg/errors"
	"lostfound-matching/pkg/geo"
)

// Config holds the scoring weights and field-recording thresholds.
// Defaults reproduce the documented matching behavior; change deliberately.
type Config struct {
	CategoryWeight    float64 `yaml:"category_weight"`
	TitleWeight       float64 `yaml:"title_weight"`
	DescriptionWeight float64 `yaml:"description_weight"`
	TagsWeight        float64 `yaml:"tags_weight"`
	LocationWeight    float64 `yaml:"location_weight"`

	// Field-recording thresholds: a signal is listed in MatchedFields
	// only when its contribution clears these.
	TitleFieldMin       float64 `yaml:"title_field_min"`       // title text similarity
	DescriptionFieldMin float64 `yaml:"description_field_min"` // description text similarity
	TagsFieldMin        float64 `yaml:"tags_field_min"`        // tag contribution points
	LocationFieldMin    float64 `yaml:"location_field_min"`    // location contribution points

	// Coordinate branch: linear falloff to zero at this radius.
	LocationRadiusKm float64 `yaml:"location_radius_km"`
	// Name fallback: flat bonus when either location name contains the
	// other, used whenever either side lacks coordinates. Not gated on
	// any threshold; it always records "location".
	LocationNameBonus float64 `yaml:"location_name_bonus"`

	MaxScore float64 `yaml:"max_score"`
}

// DefaultConfig returns the documented weights: 30/25/25/15/5 over a
// 100-point scale.
func DefaultConfig() Config {
	return Config{
		CategoryWeight:      30,
		TitleWeight:         25,
		DescriptionWeight:   25,
		TagsWeight:          15,
		LocationWeight:      5,
		TitleFieldMin:       0.3,
		DescriptionFieldMin: 0.2,
		TagsFieldMin:        5,
		LocationFieldMin:    2,
		LocationRadiusKm:    5,
		LocationNameBonus:   3,
		MaxScore:            100,
	}
}

// ConfigFromFile loads weight overrides from a YAML file on top of the
// defaults; keys absent from the file keep their default values.
func ConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errs.NewInvalidInput("similarity.ConfigFromFile", fmt.Sprintf("cannot read weights file %s", path), err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errs.NewInvalidInput("similarity.ConfigFromFile", fmt.Sprintf("malformed weights file %s", path), err)
	}
	if cfg.MaxScore <= 0 {
		return cfg, errs.NewInvalidInput("similarity.ConfigFromFile", "max_score must be positive", nil)
	}
	return cfg, nil
}

// Result is the outcome of scoring one lost/found pair.
type Result struct {
	Similarity    float64  `json:"similarity"`
	MatchedFields []string `json:"matched_fields"`
}

// Scorer computes weighted pair similarity. Pure and stateless after
// construction; safe for concurrent use.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer { return &Scorer{cfg: cfg} }
func NewDefault() *Scorer          { return NewScorer(DefaultConfig()) }

// Score combines category equality, title/description token overlap, tag
// overlap, and location proximity into a similarity in [0, 1] plus the
// list of fields that contributed materially. Deterministic for identical
// inputs. The only failure mode is out-of-range coordinates.
func (s *Scorer) Score(lost, found models.Item) (Result, error) {
	score := 0.0
	var fields []string

	if lost.Category == found.Category {
		score += s.cfg.CategoryWeight
		fields = append(fields, "category")
	}

	titleSim := Text(lost.Title, found.Title)
	score += titleSim * s.cfg.TitleWeight
	if titleSim > s.cfg.TitleFieldMin {
		fields = append(fields, "title")
	}

	descSim := Text(lost.Description, found.Description)
	score += descSim * s.cfg.DescriptionWeight
	if descSim > s.cfg.DescriptionFieldMin {
		fields = append(fields, "description")
	}

	tagScore := s.tagContribution(lost.Tags, found.Tags)
	score += tagScore
	if tagScore > s.cfg.TagsFieldMin {
		fields = append(fields, "tags")
	}

	locScore, locMatched, err := s.locationContribution(lost, found)
	if err != nil {
		return Result{}, err
	}
	score += locScore
	if locMatched {
		fields = append(fields, "location")
	}

	return Result{
		Similarity:    score / s.cfg.MaxScore,
		MatchedFields: fields,
	}, nil
}

// tagContribution counts lost tags that overlap any found tag, where a
// pair overlaps when either is a case-insensitive substring of the other,
// and scales by the larger tag list.
func (s *Scorer) tagContribution(lostTags, foundTags []string) float64 {
	overlap := 0
	for _, lt := range lostTags {
		ltLower := strings.ToLower(lt)
		for _, ft := range foundTags {
			ftLower := strings.ToLower(ft)
			if strings.Contains(ftLower, ltLower) || strings.Contains(ltLower, ftLower) {
				overlap++
				break
			}
		}
	}
	denom := len(lostTags)
	if len(foundTags) > denom {
		denom = len(foundTags)
	}
	if denom < 1 {
		denom = 1
	}
	return float64(overlap) / float64(denom) * s.cfg.TagsWeight
}

// locationContribution prefers coordinates when both sides have them:
// linear falloff inside the radius, nothing beyond it. Otherwise a flat
// bonus applies when either display name contains the other; that branch
// always records the field.
func (s *Scorer) locationContribution(lost, found models.Item) (float64, bool, error) {
	if lost.HasCoordinates() && found.HasCoordinates() {
		dist, err := geo.DistanceKm(
			geo.Point{Lat: *lost.Lat, Lng: *lost.Lng},
			geo.Point{Lat: *found.Lat, Lng: *found.Lng},
		)
		if err != nil {
			return 0, false, err
		}
		if dist >= s.cfg.LocationRadiusKm {
			return 0, false, nil
		}
		contribution := (s.cfg.LocationRadiusKm - dist) / s.cfg.LocationRadiusKm * s.cfg.LocationWeight
		if contribution < 0 {
			contribution = 0
		}
		return contribution, contribution > s.cfg.LocationFieldMin, nil
	}

	lostName := strings.ToLower(lost.LocationName)
	foundName := strings.ToLower(found.LocationName)
	if strings.Contains(lostName, foundName) || strings.Contains(foundName, lostName) {
		return s.cfg.LocationNameBonus, true, nil
	}
	return 0, false, nil
}
