package service

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/dates"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// maxbytes=N limits the length of a string in bytes rather than runes.
	v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}

// Forms carry raw submitted values. They bind from either form-encoded or JSON bodies.

type RegisterForm struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type LoginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type TopicForm struct {
	Name     string `form:"name" json:"name"`
	Category string `form:"category" json:"category"`
}

type LogForm struct {
	TopicID        string `form:"topicId" json:"topicId"`
	Date           string `form:"date" json:"date"`
	Energy         string `form:"energy" json:"energy"`
	ProblemsSolved string `form:"problemsSolved" json:"problemsSolved"`
	RevisionVolume string `form:"revisionVolume" json:"revisionVolume"`
	BackendWork    string `form:"backendWork" json:"backendWork"`
	TechUsed       string `form:"techUsed" json:"techUsed"`
	Notes          string `form:"notes" json:"notes"`
	ProblemURLs    string `form:"problemUrls" json:"problemUrls"`
	Stars          string `form:"stars" json:"stars"`
	IsPublic       string `form:"isPublic" json:"isPublic"`
}

type SkillForm struct {
	Skill         string `form:"skill" json:"skill"`
	Practiced     string `form:"practiced" json:"practiced"`
	UsedInProject string `form:"usedInProject" json:"usedInProject"`
	Confidence    string `form:"confidence" json:"confidence"`
}

type ResourceForm struct {
	Title       string `form:"title" json:"title"`
	URL         string `form:"url" json:"url"`
	Description string `form:"description" json:"description"`
	Type        string `form:"type" json:"type"`
	TopicID     string `form:"topicId" json:"topicId"`
	IsPublic    string `form:"isPublic" json:"isPublic"`
}

type ProfileForm struct {
	Name      string `form:"name" json:"name"`
	Bio       string `form:"bio" json:"bio"`
	AvatarURL string `form:"avatarUrl" json:"avatarUrl"`
	IsPublic  string `form:"isPublic" json:"isPublic"`
}

// Typed inputs. Field order is the order rules are reported in.

type RegisterInput struct {
	Name     string `validate:"min=2"`
	Email    string `validate:"email"`
	Password string `validate:"min=6,maxbytes=72"`
}

type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type TopicInput struct {
	Name     string            `validate:"required"`
	Category internal.Category `validate:"oneof=DSA Backend Custom"`
}

type LogInput struct {
	TopicID        string    `validate:"required"`
	Date           time.Time `validate:"required"`
	Energy         int       `validate:"gte=1,lte=5"`
	ProblemsSolved int       `validate:"gte=0"`
	RevisionVolume int       `validate:"gte=0"`
	BackendWork    string
	TechUsed       string
	Notes          string
	ProblemURLs    []string
	Stars          int `validate:"gte=1,lte=5"`
	IsPublic       bool
}

type SkillInput struct {
	Skill         string `validate:"required"`
	Practiced     bool
	UsedInProject bool
	Confidence    int `validate:"gte=1,lte=5"`
}

type ResourceInput struct {
	Title       string `validate:"required"`
	URL         string `validate:"url"`
	Description string
	Type        internal.ResourceType `validate:"oneof=Documentation Video Article Course GitHub Other"`
	TopicID     string
	IsPublic    bool
}

type ProfileInput struct {
	Name      string `validate:"min=2"`
	Bio       string
	AvatarURL string `validate:"omitempty,url"`
	IsPublic  bool
}

// messages maps "Struct.Field" to the text shown for any rule on that field.
// A "Struct.Field.tag" entry overrides it for one rule.
var messages = map[string]string{
	"RegisterInput.Name":              "Name must be at least 2 characters",
	"RegisterInput.Email":             "Invalid email address",
	"RegisterInput.Password":          "Password must be at least 6 characters",
	"RegisterInput.Password.maxbytes": "Password must be at most 72 bytes",
	"LoginInput.Email":                "Email is required",
	"LoginInput.Password":             "Password is required",
	"TopicInput.Name":                 "Topic name is required",
	"TopicInput.Category":             "Category must be one of DSA, Backend, Custom",
	"LogInput.TopicID":                "Topic is required",
	"LogInput.Date":                   "Invalid date",
	"LogInput.Energy":                 "Energy must be between 1 and 5",
	"LogInput.ProblemsSolved":         "Problems solved must be 0 or more",
	"LogInput.RevisionVolume":         "Revision volume must be 0 or more",
	"LogInput.Stars":                  "Stars must be between 1 and 5",
	"SkillInput.Skill":                "Skill name is required",
	"SkillInput.Confidence":           "Confidence must be between 1 and 5",
	"ResourceInput.Title":             "Title is required",
	"ResourceInput.URL":               "Valid URL is required",
	"ResourceInput.Type":              "Type must be one of Documentation, Video, Article, Course, GitHub, Other",
	"ProfileInput.Name":               "Name must be at least 2 characters",
	"ProfileInput.AvatarURL":          "Invalid avatar URL",
}

// check runs the struct rules and reports the first failure as a 400.
func check(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return internal.WrapAppError(http.StatusInternalServerError, "Something went wrong", err)
	}
	fe := verrs[0]
	msg, ok := messages[fe.StructNamespace()+"."+fe.Tag()]
	if !ok {
		msg, ok = messages[fe.StructNamespace()]
	}
	if !ok {
		msg = "Invalid " + fe.Field()
	}
	return internal.WrapAppError(http.StatusBadRequest, msg, fe)
}

// parseBool accepts the values HTML checkboxes and JSON clients send for true.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "1":
		return true
	}
	return false
}

// parseInt returns invalid when s is not an integer. Empty means def.
func parseInt(s string, def, invalid int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return invalid
	}
	return n
}

// SplitProblemURLs splits a multiline field, trimming lines and dropping blanks.
func SplitProblemURLs(text string) []string {
	urls := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}

func ValidateRegister(form RegisterForm) (*RegisterInput, error) {
	in := &RegisterInput{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.ToLower(strings.TrimSpace(form.Email)),
		Password: form.Password,
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return in, nil
}

func ValidateLogin(form LoginForm) (*LoginInput, error) {
	in := &LoginInput{
		Email:    strings.ToLower(strings.TrimSpace(form.Email)),
		Password: form.Password,
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return in, nil
}

func ValidateTopic(form TopicForm) (*TopicInput, error) {
	in := &TopicInput{
		Name:     strings.TrimSpace(form.Name),
		Category: internal.Category(strings.TrimSpace(form.Category)),
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return in, nil
}

// ValidateLog parses a log form. An empty date means now; an unparseable one
// fails with "Invalid date".
func ValidateLog(form LogForm, now time.Time) (*LogInput, error) {
	date := now
	if strings.TrimSpace(form.Date) != "" {
		parsed, err := dates.ParseDate(strings.TrimSpace(form.Date), now.Location())
		if err != nil {
			parsed = time.Time{}
		}
		date = parsed
	}
	in := &LogInput{
		TopicID:        strings.TrimSpace(form.TopicID),
		Date:           date,
		Energy:         parseInt(form.Energy, 0, 0),
		ProblemsSolved: parseInt(form.ProblemsSolved, 0, -1),
		RevisionVolume: parseInt(form.RevisionVolume, 0, -1),
		BackendWork:    form.BackendWork,
		TechUsed:       form.TechUsed,
		Notes:          form.Notes,
		ProblemURLs:    SplitProblemURLs(form.ProblemURLs),
		Stars:          parseInt(form.Stars, 0, 0),
		IsPublic:       parseBool(form.IsPublic),
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return in, nil
}

func ValidateSkill(form SkillForm) (*SkillInput, error) {
	in := &SkillInput{
		Skill:         strings.TrimSpace(form.Skill),
		Practiced:     parseBool(form.Practiced),
		UsedInProject: parseBool(form.UsedInProject),
		Confidence:    parseInt(form.Confidence, 0, 0),
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return in, nil
}

func ValidateResource(form ResourceForm) (*ResourceInput, error) {
	in := &ResourceInput{
		Title:       strings.TrimSpace(form.Title),
		URL:         strings.TrimSpace(form.URL),
		Description: form.Description,
		Type:        internal.ResourceType(strings.TrimSpace(form.Type)),
		TopicID:     strings.TrimSpace(form.TopicID),
		IsPublic:    parseBool(form.IsPublic),
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return in, nil
}

// ValidateProfile treats an empty avatar URL as unset.
func ValidateProfile(form ProfileForm) (*ProfileInput, error) {
	in := &ProfileInput{
		Name:      strings.TrimSpace(form.Name),
		Bio:       form.Bio,
		AvatarURL: strings.TrimSpace(form.AvatarURL),
		IsPublic:  parseBool(form.IsPublic),
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return in, nil
}
