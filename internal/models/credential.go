package models

// RegistryCredential is the per-study token issued by the registry at
// project-creation time. Created once, read many times, never
// regenerated while a project is active.
type RegistryCredential struct {
	StudyID string `json:"study_id"`
	APIKey  string `json:"api_key"`
}
