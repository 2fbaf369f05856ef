package recommend

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/muhammadolammi/skillnest/internal/database"
	"gopkg.in/yaml.v3"
)

//go:embed careers.yaml
var defaultCatalog []byte

type Career struct {
	Name   string   `yaml:"name" json:"name"`
	Skills []string `yaml:"skills" json:"skills"`
}

// Catalog lists the careers offered by the free text skill gap check.
type Catalog struct {
	Careers []Career `yaml:"careers" json:"careers"`
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse career catalog: %w", err)
	}
	for i, career := range c.Careers {
		if strings.TrimSpace(career.Name) == "" {
			return nil, fmt.Errorf("career %d has no name", i)
		}
	}
	return &c, nil
}

// LoadCatalog reads the catalog at path, or the built in one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read career catalog: %w", err)
	}
	return ParseCatalog(data)
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Careers))
	for _, career := range c.Careers {
		names = append(names, career.Name)
	}
	return names
}

// Skills returns the required skills of a career. Unknown careers require nothing.
func (c *Catalog) Skills(name string) []string {
	for _, career := range c.Careers {
		if career.Name == name {
			return career.Skills
		}
	}
	return nil
}

type SkillLink struct {
	Name       string `json:"name"`
	YoutubeURL string `json:"youtube_url"`
}

func YoutubeSearchURL(skill string) string {
	return "https://www.youtube.com/results?search_query=learn+" + strings.ReplaceAll(skill, " ", "+")
}

type TextGap struct {
	Acquired []string    `json:"acquired_skills"`
	Gap      []SkillLink `json:"gap_skills"`
}

// GapNames returns the gap skill names in order.
func (g TextGap) GapNames() []string {
	names := make([]string, 0, len(g.Gap))
	for _, s := range g.Gap {
		names = append(names, s.Name)
	}
	return names
}

// ParseSkillList splits a comma separated list into trimmed lower case entries.
func ParseSkillList(input string) []string {
	var skills []string
	for _, s := range strings.Split(input, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// FreeTextGap matches typed skills against required ones. A typed skill claims the
// first required skill, in sorted order, whose lower case name contains it.
func FreeTextGap(required []string, userSkills []string) TextGap {
	req := dedupeSorted(required)
	acquired := make(map[string]struct{})
	for _, us := range userSkills {
		for _, rs := range req {
			if strings.Contains(strings.ToLower(rs), us) {
				acquired[rs] = struct{}{}
				break
			}
		}
	}

	gap := TextGap{Acquired: []string{}, Gap: []SkillLink{}}
	for _, rs := range req {
		if _, ok := acquired[rs]; ok {
			gap.Acquired = append(gap.Acquired, rs)
			continue
		}
		gap.Gap = append(gap.Gap, SkillLink{Name: rs, YoutubeURL: YoutubeSearchURL(rs)})
	}
	return gap
}

// CareerGap compares a user's skills with a stored career path.
type CareerGap struct {
	Career            database.CareerPath `json:"career"`
	RequiredSkills    []database.Skill    `json:"required_skills"`
	UserSkills        []database.Skill    `json:"user_skills"`
	MissingSkills     []database.Skill    `json:"missing_skills"`
	CompletionPercent int                 `json:"completion_percent"`
	TotalRequired     int                 `json:"total_required"`
	SkillsAcquired    int                 `json:"skills_acquired"`
}

func StoredGap(career database.CareerPath, required []database.Skill, userSkillIDs []int64) CareerGap {
	userSet := toSet(userSkillIDs)
	gap := CareerGap{
		Career:         career,
		RequiredSkills: required,
		UserSkills:     []database.Skill{},
		MissingSkills:  []database.Skill{},
	}
	seen := make(map[int64]struct{}, len(required))
	for _, s := range required {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		if _, ok := userSet[s.ID]; ok {
			gap.UserSkills = append(gap.UserSkills, s)
		} else {
			gap.MissingSkills = append(gap.MissingSkills, s)
		}
	}
	gap.TotalRequired = len(seen)
	gap.SkillsAcquired = len(gap.UserSkills)
	if gap.TotalRequired == 0 {
		gap.CompletionPercent = 100
	} else {
		gap.CompletionPercent = int(float64(gap.SkillsAcquired) / float64(gap.TotalRequired) * 100)
	}
	return gap
}

func dedupeSorted(in []string) []string {
	set := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := set[s]; ok {
			continue
		}
		set[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
