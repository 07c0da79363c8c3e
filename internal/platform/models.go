package platform

import "encoding/json"

// TokenResponse is the token endpoint answer for both grant types.
// CreatedAt is a unix timestamp.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	CreatedAt    int64  `json:"created_at"`
}

// Me is the signed-in platform user.
type Me struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LocationNode is a place in a project's location tree that checklist
// lists hang off.
type LocationNode struct {
	ID       int64  `json:"id"`
	NodeName string `json:"node_name"`
}

// UnmarshalJSON reads node_name and falls back to name when the platform
// omits it.
func (n *LocationNode) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       int64  `json:"id"`
		NodeName string `json:"node_name"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	n.ID = raw.ID
	n.NodeName = raw.NodeName
	if n.NodeName == "" {
		n.NodeName = raw.Name
	}
	return nil
}

// ChecklistList is one inspection form instance. Location is nil when the
// platform returns "location": null.
type ChecklistList struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name,omitempty"`
	Location *LocationNode `json:"location"`
}

// ChecklistDetail is a list with its sections in server order.
type ChecklistDetail struct {
	ID       int64     `json:"id"`
	Sections []Section `json:"sections"`
}

type Section struct {
	ID    int64  `json:"section_id"`
	Items []Item `json:"items"`
}

type Item struct {
	ID        int64 `json:"id"`
	Position  int   `json:"position"`
	SectionID int64 `json:"section_id"`
}

// ItemPatch is the body of a checklist item status update.
type ItemPatch struct {
	ProjectID int64      `json:"project_id"`
	SectionID int64      `json:"section_id"`
	Item      ItemStatus `json:"item"`
}

type ItemStatus struct {
	Status string `json:"status"`
}
