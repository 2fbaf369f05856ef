package recommend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, c.Careers, 8)
	assert.Contains(t, c.Skills("Backend Developer"), "Docker")
	assert.Nil(t, c.Skills("Astronaut"))
	assert.Equal(t, "Frontend Developer", c.Names()[0])
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("careers:\n  - name: Gopher\n    skills: [Go]\n"), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, c.Skills("Gopher"))

	_, err = ParseCatalog([]byte("careers:\n  - skills: [Go]\n"))
	assert.Error(t, err)
}

func TestParseSkillList(t *testing.T) {
	assert.Equal(t, []string{"python", "sql"}, ParseSkillList(" Python, ,SQL "))
	assert.Nil(t, ParseSkillList(""))
}

func TestFreeTextGap(t *testing.T) {
	required := []string{"Python", "SQL", "REST API", "Docker", "Node.js", "Database Design"}
	gap := FreeTextGap(required, ParseSkillList("python, sql, data"))

	assert.Equal(t, []string{"Database Design", "Python", "SQL"}, gap.Acquired)
	if diff := cmp.Diff([]string{"Docker", "Node.js", "REST API"}, gap.GapNames()); diff != "" {
		t.Errorf("gap mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "https://www.youtube.com/results?search_query=learn+REST+API", gap.Gap[2].YoutubeURL)
}

func TestFreeTextGapFirstMatchOnly(t *testing.T) {
	// "java" claims Java, the first sorted match, and stops there.
	gap := FreeTextGap([]string{"JavaScript", "Java"}, []string{"java"})
	assert.Equal(t, []string{"Java"}, gap.Acquired)
	assert.Equal(t, []string{"JavaScript"}, gap.GapNames())
}

func TestStoredGap(t *testing.T) {
	career := database.CareerPath{ID: 1, CareerName: "Backend"}
	required := []database.Skill{{ID: 1, SkillName: "Go"}, {ID: 2, SkillName: "SQL"}, {ID: 3, SkillName: "Docker"}}

	gap := StoredGap(career, required, []int64{2, 9})
	assert.Equal(t, 3, gap.TotalRequired)
	assert.Equal(t, 1, gap.SkillsAcquired)
	assert.Equal(t, 33, gap.CompletionPercent)
	assert.Len(t, gap.MissingSkills, 2)

	empty := StoredGap(career, nil, []int64{1})
	assert.Equal(t, 100, empty.CompletionPercent)
	assert.Zero(t, empty.TotalRequired)
}
