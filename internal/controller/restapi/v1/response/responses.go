package response

import "github.com/enrollhq/enroll/internal/entity"

type Error struct {
	Error string `json:"error"`
}

type Transition struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Record    *entity.Record `json:"record,omitempty"`
	SavedPath string         `json:"savedPath,omitempty"`
}
