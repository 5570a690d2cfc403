package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	activitylogapimodels "permit-workflow-backend/models/api/activitylog"
)

type EntityChanges struct {
	Description string         `json:"description"`
	Data        []FieldChanges `json:"data"`
}

type FieldChanges struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

func (j EntityChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityChanges) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), &j)
	case []byte:
		return json.Unmarshal(v, &j)
	}
	return nil
}

func (j EntityChanges) IsEmpty() bool {
	return len(j.Data) == 0 && j.Description == ""
}

func (j EntityChanges) ToModel() *activitylogapimodels.Changes {
	if j.IsEmpty() {
		return nil
	}
	result := &activitylogapimodels.Changes{
		Description: j.Description,
		Data:        make([]activitylogapimodels.FieldChange, 0, len(j.Data)),
	}
	for _, item := range j.Data {
		result.Data = append(result.Data, activitylogapimodels.FieldChange{
			Field:    item.Field,
			OldValue: item.OldValue,
			NewValue: item.NewValue,
		})
	}
	return result
}
