package model

import "time"

// QuestionSet is an experiment: a dated bundle of questions assigned to students.
type QuestionSet struct {
	ID        int64      `json:"id,omitempty"`
	Title     string     `json:"title"               validate:"required,max=200"`
	Deadline  string     `json:"deadline"            validate:"required"`
	Teacher   int64      `json:"teacher,omitempty"`
	Students  []int64    `json:"students"`
	Questions []Question `json:"questions"           validate:"dive"`
}

// Question is a single item in a question set.
type Question struct {
	ID            int64      `json:"id,omitempty"`
	Type          string     `json:"type"                     validate:"required,oneof=choice fill coding"`
	Prompt        string     `json:"prompt"                   validate:"required"`
	CorrectAnswer string     `json:"correct_answer,omitempty"`
	Score         int        `json:"score"                    validate:"gte=0"`
	Order         int        `json:"order"`
	TestCases     []TestCase `json:"testcases"`
}

// TestCase is one input/expected-output pair for a coding question.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Submission is a student's graded experiment submission.
type Submission struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	StudentName string    `json:"studentName"`
	SetID       int64     `json:"setId"`
	SetTitle    string    `json:"setTitle"`
	Deadline    time.Time `json:"deadline"`
	SubmittedAt time.Time `json:"submittedAt"`
	Passed      bool      `json:"passed"`
	Answers     []Answer  `json:"answers"`
}

// Answer is one graded answer within a submission.
type Answer struct {
	ID                  int64        `json:"id"`
	QuestionTypeDisplay string       `json:"question_type_display"`
	Prompt              string       `json:"prompt"`
	CorrectAnswer       *string      `json:"correct_answer"`
	StudentAnswer       *string      `json:"student_answer"`
	IsPassed            bool         `json:"is_passed"`
	TestResults         []TestResult `json:"test_results"`
}

// TestResult is the judge outcome for one test case.
type TestResult struct {
	ID             int64  `json:"id"`
	Input          string `json:"test_case_input"`
	ExpectedOutput string `json:"expected_output"`
	ActualOutput   string `json:"actual_output"`
	IsPassed       bool   `json:"is_passed"`
}
