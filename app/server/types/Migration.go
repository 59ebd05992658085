package types

type MigrateRequest struct {
	TargetUserTypeID uint `json:"target_user_type_id"`
	AllowIncomplete  bool `json:"allow_incomplete"`
}

type BatchMigrateRequest struct {
	UserIDs          []uint `json:"user_ids"`
	TargetUserTypeID uint   `json:"target_user_type_id"`
	AllowIncomplete  bool   `json:"allow_incomplete"`
}

// MigrationResult 是单个用户的迁移结果，单个迁移接口直接返回它
type MigrationResult struct {
	UserID                uint     `json:"user_id"`
	Success               bool     `json:"success"`
	PreviousUserTypeID    *uint    `json:"previous_user_type_id,omitempty"`
	TargetUserTypeID      *uint    `json:"target_user_type_id,omitempty"`
	MissingRequiredCount  int      `json:"missing_required_count"`
	MissingRequiredFields []string `json:"missing_required_fields,omitempty"`
	Error                 string   `json:"error,omitempty"`
}

type BatchMigrateResponse struct {
	Success  bool              `json:"success"`
	Migrated int               `json:"migrated"`
	Failed   int               `json:"failed"`
	Results  []MigrationResult `json:"results"`
}
