package recommend

import (
	"sort"

	"github.com/muhammadolammi/skillnest/internal/database"
)

const (
	// DisplayLimit is the number of recommendations shown to a student.
	DisplayLimit = 10
	// StoreLimit is the number of recommendations persisted per student.
	StoreLimit = 50
)

// CalculateMatchScore returns matched/required over the distinct skill ids.
// A job without required skills scores (0, 0, 0).
func CalculateMatchScore(userSkillIDs, jobSkillIDs []int64) (score float64, matched, required int) {
	jobSet := toSet(jobSkillIDs)
	if len(jobSet) == 0 {
		return 0, 0, 0
	}
	userSet := toSet(userSkillIDs)
	for id := range jobSet {
		if _, ok := userSet[id]; ok {
			matched++
		}
	}
	required = len(jobSet)
	return float64(matched) / float64(required), matched, required
}

// MatchPercent is the float percentage shown on job listings.
func MatchPercent(userSkillIDs, jobSkillIDs []int64) float64 {
	score, _, _ := CalculateMatchScore(userSkillIDs, jobSkillIDs)
	return score * 100
}

type Recommendation struct {
	Job                 database.Job     `json:"job"`
	MatchScore          float64          `json:"match_score"`
	MatchPercent        int              `json:"match_percent"`
	MatchedSkillsCount  int              `json:"matched_skills_count"`
	TotalRequiredSkills int              `json:"total_required_skills"`
	MissingSkillsCount  int              `json:"missing_skills_count"`
	MissingSkillIDs     []int64          `json:"-"`
	MissingSkills       []database.Skill `json:"missing_skills"`
	RequiredSkillIDs    []int64          `json:"required_skill_ids"`
}

// Recommend scores every active job against the user's skills, drops jobs
// without any match and orders the rest by score then by newest posting.
func Recommend(userSkillIDs []int64, jobs []database.JobWithSkills, limit int) []Recommendation {
	userSet := toSet(userSkillIDs)
	var recs []Recommendation
	for _, job := range jobs {
		if !job.IsActive {
			continue
		}
		score, matched, required := CalculateMatchScore(userSkillIDs, job.SkillIDs)
		if score <= 0 {
			continue
		}
		var missing []int64
		for _, id := range sortedIDs(toSet(job.SkillIDs)) {
			if _, ok := userSet[id]; !ok {
				missing = append(missing, id)
			}
		}
		recs = append(recs, Recommendation{
			Job:                 job.Job,
			MatchScore:          score,
			MatchPercent:        int(score * 100),
			MatchedSkillsCount:  matched,
			TotalRequiredSkills: required,
			MissingSkillsCount:  required - matched,
			MissingSkillIDs:     missing,
			MissingSkills:       []database.Skill{},
			RequiredSkillIDs:    job.SkillIDs,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].MatchScore != recs[j].MatchScore {
			return recs[i].MatchScore > recs[j].MatchScore
		}
		return recs[i].Job.PostedDate.After(recs[j].Job.PostedDate)
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// AttachMissingSkills fills MissingSkills from a skill lookup.
func AttachMissingSkills(recs []Recommendation, skills map[int64]database.Skill) {
	for i := range recs {
		missing := make([]database.Skill, 0, len(recs[i].MissingSkillIDs))
		for _, id := range recs[i].MissingSkillIDs {
			if s, ok := skills[id]; ok {
				missing = append(missing, s)
			}
		}
		recs[i].MissingSkills = missing
	}
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
