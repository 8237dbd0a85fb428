package model

// GenerateUploadURLRequest requests a presigned S3 upload slot for a
// new ResumeFile.
type GenerateUploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	FileType    string `json:"file_type" binding:"required,oneof=PDF DOCX"`
	ContentType string `json:"content_type" binding:"required"`
}

type GenerateUploadURLResponse struct {
	ResumeFileID string `json:"resume_file_id"`
	UploadURL    string `json:"upload_url"`
	ExpiresIn    int    `json:"expires_in"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"`
}

type CreateBaseResumeRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	RoleType string `json:"role_type" binding:"required"`
	Summary  string `json:"summary"`
}

type UpdateBaseResumeRequest struct {
	Name                   *string             `json:"name,omitempty"`
	Summary                *string             `json:"summary,omitempty"`
	IncludedJobs           []string            `json:"included_jobs,omitempty"`
	IncludedEducation      []string            `json:"included_education,omitempty"`
	IncludedCertifications []string            `json:"included_certifications,omitempty"`
	SkillsEmphasis         []string            `json:"skills_emphasis,omitempty"`
	JobBulletSelections    map[string][]string `json:"job_bullet_selections,omitempty"`
	JobBulletOrder         map[string][]string `json:"job_bullet_order,omitempty"`
}
