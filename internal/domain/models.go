package domain

// Species is a catalog entry shown as an answer option.
type Species struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	ScientificName string `json:"scientificName,omitempty" yaml:"scientific_name"`
	Region         string `json:"region,omitempty" yaml:"region"`
}

// VideoAsset is a stored clip of a single species.
type VideoAsset struct {
	ID        string `json:"id" yaml:"id"`
	SpeciesID string `json:"speciesId" yaml:"species_id"`
	FilePath  string `json:"filePath" yaml:"file_path"`
}

// Catalog is the full species/video listing as fetched for one build.
type Catalog struct {
	Species []Species    `json:"species" yaml:"species"`
	Videos  []VideoAsset `json:"videos" yaml:"videos"`
}

// Question models an MCQ question with exactly one correct option.
// ID is the id of the video the question plays.
type Question struct {
	ID            string   `json:"id"`
	VideoURL      string   `json:"videoUrl"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// AnswerRecord is appended once per answered question.
type AnswerRecord struct {
	QuestionID string `json:"questionId"`
	Selected   string `json:"selected"`
	Correct    string `json:"correct"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Summary is handed to the results view when a quiz completes.
type Summary struct {
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     int            `json:"percentage"`
	AnswerLog      []AnswerRecord `json:"answerLog"`
}

// Results is the results-page view of a Summary.
type Results struct {
	Summary
	Message        string   `json:"message"`
	NewFishLearned int      `json:"newFishLearned"`
	Correct        []string `json:"correct"`
	Incorrect      []string `json:"incorrect"`
}

// QuestionView is a question as presented to a player, without its answer.
type QuestionView struct {
	ID       string   `json:"id"`
	Number   int      `json:"number"`
	Total    int      `json:"total"`
	Progress float64  `json:"progress"`
	VideoURL string   `json:"videoUrl"`
	Options  []string `json:"options"`
}
