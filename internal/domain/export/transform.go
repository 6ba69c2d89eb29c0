package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/project"
)

// Transform maps a scored double diamond project onto the primary project
// model. It performs no I/O. The returned phases are the stages whose
// content was carried over.
func Transform(dd *diamond.Project, targetName string) (*project.Bundle, []diamond.Phase, error) {
	if dd == nil || !dd.HasScores() {
		return nil, nil, ErrNotReady
	}
	if dd.Deliver.Payload == nil {
		return nil, nil, fmt.Errorf("%w: deliver has no content", ErrExportFailed)
	}

	name := strings.TrimSpace(targetName)
	if name == "" {
		name = dd.Briefing.Name
	}
	description := dd.Briefing.Description
	if description == "" {
		description = dd.Briefing.ProblemStatement
	}
	sourceID := dd.ID

	bundle := &project.Bundle{
		Project: project.Project{
			Name:            name,
			Description:     description,
			SourceDiamondID: &sourceID,
		},
	}
	var phases []diamond.Phase

	if d := dd.Discover.Payload; d != nil {
		bundle.Empathy = empathyEntries(d)
		phases = append(phases, diamond.PhaseDiscover)
	}

	if d := dd.Define.Selected(); d != nil {
		for i, pov := range d.POVStatements {
			bundle.POVs = append(bundle.POVs, project.POVStatement{
				User:      pov.User,
				Need:      pov.Need,
				Insight:   pov.Insight,
				Statement: pov.Statement,
				Position:  i,
			})
		}
		for i, hmw := range d.HMWQuestions {
			bundle.HMWs = append(bundle.HMWs, project.HMWQuestion{
				Question: hmw.Question,
				Focus:    hmw.Focus,
				Position: i,
			})
		}
		phases = append(phases, diamond.PhaseDefine)
	}

	if d := dd.Develop.Selected(); d != nil {
		for _, idea := range d.Ideas {
			bundle.Ideas = append(bundle.Ideas, toIdea(idea, false, len(bundle.Ideas)))
		}
		for _, idea := range d.CrossPollinatedIdeas {
			bundle.Ideas = append(bundle.Ideas, toIdea(idea, true, len(bundle.Ideas)))
		}
		phases = append(phases, diamond.PhaseDevelop)
	}

	assets, err := deliverAssets(dd.Deliver.Payload)
	if err != nil {
		return nil, nil, err
	}
	phases = append(phases, diamond.PhaseDeliver)

	assessment, err := assessmentAsset(dd.DFV.Payload)
	if err != nil {
		return nil, nil, err
	}
	assets = append(assets, assessment)
	phases = append(phases, diamond.PhaseDFV)

	for i := range assets {
		assets[i].Position = i
	}
	bundle.Assets = assets

	return bundle, phases, nil
}

func empathyEntries(d *diamond.DiscoverPayload) []project.EmpathyEntry {
	var out []project.EmpathyEntry
	add := func(q project.Quadrant, content, source string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		out = append(out, project.EmpathyEntry{
			Quadrant: q,
			Content:  content,
			Source:   source,
			Position: len(out),
		})
	}

	for _, s := range d.EmpathyMap.Says {
		add(project.QuadrantSays, s, "empathy_map")
	}
	for _, s := range d.EmpathyMap.Thinks {
		add(project.QuadrantThinks, s, "empathy_map")
	}
	for _, s := range d.EmpathyMap.Does {
		add(project.QuadrantDoes, s, "empathy_map")
	}
	for _, s := range d.EmpathyMap.Feels {
		add(project.QuadrantFeels, s, "empathy_map")
	}
	for _, pp := range d.PainPoints {
		add(project.QuadrantPains, joinText(pp.Title, pp.Description), "pain_point")
	}
	for _, in := range d.Insights {
		add(project.QuadrantThinks, joinText(in.Title, in.Description), "insight")
	}
	for _, need := range d.UserNeeds {
		add(project.QuadrantGains, need, "user_need")
	}
	return out
}

func toIdea(idea diamond.Idea, cross bool, pos int) project.Idea {
	return project.Idea{
		Title:           idea.Title,
		Description:     idea.Description,
		Category:        idea.Category,
		CrossPollinated: cross,
		Score:           idea.Score,
		Position:        pos,
	}
}

func deliverAssets(d *diamond.DeliverPayload) ([]project.Asset, error) {
	var out []project.Asset
	add := func(kind project.AssetKind, title string, v any) error {
		content, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: encoding %s: %v", ErrExportFailed, kind, err)
		}
		out = append(out, project.Asset{Kind: kind, Title: title, Content: string(content)})
		return nil
	}

	mvpTitle := d.MVPConcept.Name
	if mvpTitle == "" {
		mvpTitle = "MVP concept"
	}
	if err := add(project.AssetMVPConcept, mvpTitle, d.MVPConcept); err != nil {
		return nil, err
	}
	if d.LandingPage.Headline != "" || len(d.LandingPage.Sections) > 0 {
		if err := add(project.AssetLandingPage, "Landing page", d.LandingPage); err != nil {
			return nil, err
		}
	}
	if err := add(project.AssetTestPlan, "Test plan", d.TestPlan); err != nil {
		return nil, err
	}
	for i, logo := range d.LogoSuggestions {
		if err := add(project.AssetLogo, fmt.Sprintf("Logo option %d", i+1), logo); err != nil {
			return nil, err
		}
	}
	if len(d.SocialCopy) > 0 {
		if err := add(project.AssetSocialCopy, "Social copy", d.SocialCopy); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type assessment struct {
	*diamond.DFVPayload
	Overall int `json:"overall"`
}

func assessmentAsset(d *diamond.DFVPayload) (project.Asset, error) {
	content, err := json.Marshal(assessment{DFVPayload: d, Overall: d.Overall()})
	if err != nil {
		return project.Asset{}, fmt.Errorf("%w: encoding dfv assessment: %v", ErrExportFailed, err)
	}
	return project.Asset{
		Kind:    project.AssetDFVAssessment,
		Title:   "DFV assessment",
		Content: string(content),
	}, nil
}

func joinText(title, description string) string {
	if description == "" {
		return title
	}
	return title + ": " + description
}
