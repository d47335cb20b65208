package dto

// SeedCourse is a single course of the demo catalogue.
type SeedCourse struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Semester    string `json:"semester"`
	Level       string `json:"level"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Syllabus    string `json:"syllabus"`
	Schedule    string `json:"schedule"`
	Location    string `json:"location"`
}

// SeedCoursesRequest is the body accepted by the course seeding endpoint.
type SeedCoursesRequest struct {
	Items []SeedCourse `json:"items"`
}

// SeedResponse reports how many rows a seed touched.
type SeedResponse struct {
	Affected int64 `json:"affected"`
}
