package project

import "time"

// Project is a primary-model project. Projects created from a double diamond
// export keep a reference to their source.
type Project struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	SourceDiamondID *string   `json:"source_diamond_id,omitempty"`
	SourceExportID  *string   `json:"source_export_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Quadrant is an empathy map section.
type Quadrant string

const (
	QuadrantSays   Quadrant = "says"
	QuadrantThinks Quadrant = "thinks"
	QuadrantDoes   Quadrant = "does"
	QuadrantFeels  Quadrant = "feels"
	QuadrantPains  Quadrant = "pains"
	QuadrantGains  Quadrant = "gains"
)

// EmpathyEntry is a sticky note on the project's empathy map.
type EmpathyEntry struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"project_id"`
	Quadrant  Quadrant `json:"quadrant"`
	Content   string   `json:"content"`
	Source    string   `json:"source,omitempty"`
	Position  int      `json:"position"`
}

// POVStatement is a point-of-view statement.
type POVStatement struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	User      string `json:"user,omitempty"`
	Need      string `json:"need,omitempty"`
	Insight   string `json:"insight,omitempty"`
	Statement string `json:"statement"`
	Position  int    `json:"position"`
}

// HMWQuestion is a "How might we" question.
type HMWQuestion struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Question  string `json:"question"`
	Focus     string `json:"focus,omitempty"`
	Position  int    `json:"position"`
}

// Idea is an ideation result.
type Idea struct {
	ID              string `json:"id"`
	ProjectID       string `json:"project_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category,omitempty"`
	CrossPollinated bool   `json:"cross_pollinated"`
	Score           int    `json:"score,omitempty"`
	Position        int    `json:"position"`
}

// AssetKind names a prototype or assessment artifact.
type AssetKind string

const (
	AssetMVPConcept    AssetKind = "mvp_concept"
	AssetLandingPage   AssetKind = "landing_page"
	AssetTestPlan      AssetKind = "test_plan"
	AssetLogo          AssetKind = "logo"
	AssetSocialCopy    AssetKind = "social_copy"
	AssetDFVAssessment AssetKind = "dfv_assessment"
)

// Asset is a prototype or assessment artifact. Content is a JSON document.
type Asset struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Kind      AssetKind `json:"kind"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  int       `json:"position"`
}

// Bundle is a project together with all of its entities.
type Bundle struct {
	Project Project        `json:"project"`
	Empathy []EmpathyEntry `json:"empathy_map"`
	POVs    []POVStatement `json:"pov_statements"`
	HMWs    []HMWQuestion  `json:"hmw_questions"`
	Ideas   []Idea         `json:"ideas"`
	Assets  []Asset        `json:"assets"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	SourceDiamondID *string   `json:"source_diamond_id,omitempty"`
	IdeaCount       int       `json:"idea_count"`
	AssetCount      int       `json:"asset_count"`
	CreatedAt       time.Time `json:"created_at"`
}
