package skilltree

import "math"

type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Tier struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Order  int     `json:"order"`
	Skills []Skill `json:"skills"`
}

// Tree is the skill tree of one major. Tiers are ordered by Order.
type Tree struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tiers []Tier `json:"tiers,omitempty"`
}

func (t Tree) HasSkill(skillID string) bool {
	for _, tier := range t.Tiers {
		for _, s := range tier.Skills {
			if s.ID == skillID {
				return true
			}
		}
	}
	return false
}

func (t Tree) TotalSkills() int {
	var n int
	for _, tier := range t.Tiers {
		n += len(tier.Skills)
	}
	return n
}

type (
	SkillProgress struct {
		Skill
		Unlocked bool `json:"unlocked"`
	}

	TierProgress struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Order    int             `json:"order"`
		Skills   []SkillProgress `json:"skills"`
		Complete bool            `json:"complete"`
	}

	// Progress is a student's standing on a Tree.
	Progress struct {
		TreeID             string         `json:"treeId"`
		TreeName           string         `json:"treeName"`
		Tiers              []TierProgress `json:"tiers"`
		TotalSkills        int            `json:"totalSkills"`
		UnlockedSkills     int            `json:"unlockedSkills"`
		MajorProgress      int            `json:"majorProgress"`
		CertificatesEarned int            `json:"certificatesEarned"`
	}
)

// ComputeProgress matches unlocked skill IDs against t. IDs outside the tree are ignored.
// MajorProgress is the rounded percentage of unlocked skills; a certificate is earned for every
// non-empty tier whose skills are all unlocked.
func ComputeProgress(t Tree, unlocked []string) Progress {
	set := make(map[string]struct{}, len(unlocked))
	for _, id := range unlocked {
		set[id] = struct{}{}
	}

	p := Progress{
		TreeID:   t.ID,
		TreeName: t.Name,
		Tiers:    make([]TierProgress, 0, len(t.Tiers)),
	}
	for _, tier := range t.Tiers {
		tp := TierProgress{
			ID:     tier.ID,
			Name:   tier.Name,
			Order:  tier.Order,
			Skills: make([]SkillProgress, 0, len(tier.Skills)),
		}
		complete := len(tier.Skills) > 0
		for _, s := range tier.Skills {
			_, ok := set[s.ID]
			tp.Skills = append(tp.Skills, SkillProgress{Skill: s, Unlocked: ok})
			p.TotalSkills++
			if ok {
				p.UnlockedSkills++
			} else {
				complete = false
			}
		}
		tp.Complete = complete
		if complete {
			p.CertificatesEarned++
		}
		p.Tiers = append(p.Tiers, tp)
	}

	if p.TotalSkills > 0 {
		p.MajorProgress = int(math.Round(float64(p.UnlockedSkills) / float64(p.TotalSkills) * 100))
	}
	return p
}

// UnlockSkill is the payload of a skill unlock.
type UnlockSkill struct {
	SkillID string `json:"skillId"`
}
