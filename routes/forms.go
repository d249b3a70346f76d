package routes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/navbryce/next-blog-be/controllers"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/util"
)

const (
	requiredMessage      = "This field is required."
	invalidChoiceMessage = "Select a valid choice. That choice is not one of the available choices."
	invalidImageMessage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

	maxImageSize = 5 << 20
)

var (
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		mustRegister(v, "slug", slugRegex)
		mustRegister(v, "username", usernameRegex)
	}
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatalf("failed to register %v validation: %v", tag, err)
	}
}

// FormErrors maps a form field name to the message shown next to it.
type FormErrors map[string]string

func (fe FormErrors) Valid() bool {
	return len(fe) == 0
}

// postForm is the multipart body of the create and edit pages.
type postForm struct {
	Text       string `form:"text" binding:"required"`
	Group      string `form:"group"`
	ImageClear string `form:"image-clear"`
}

// bindPostForm validates the submitted post form. The returned form always holds the
// raw values so an invalid submission can be re-rendered.
func (pr *postRoutes) bindPostForm(c *gin.Context) (*postForm, *controllers.PostSubmission, FormErrors, *util.HTTPError) {
	form := &postForm{}
	formErrors := FormErrors{}
	if err := c.ShouldBind(form); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return form, nil, nil, util.BuildJSONBindHTTPErr(err)
		}
		addValidationErrors(formErrors, validationErrs)
	}
	submission := &controllers.PostSubmission{
		Text:       strings.TrimSpace(form.Text),
		ClearImage: form.ImageClear != "",
	}
	if _, failed := formErrors["text"]; !failed && strings.TrimSpace(form.Text) == "" {
		formErrors["text"] = requiredMessage
	}

	groupId, ok := util.ParseOptionalId(form.Group)
	if !ok {
		formErrors["group"] = invalidChoiceMessage
	} else if groupId != nil {
		if _, err := pr.db.GetGroupById(c, *groupId); err != nil {
			if !db.IsNotFound(err) {
				return form, nil, nil, util.BuildDbHTTPErr(err)
			}
			formErrors["group"] = invalidChoiceMessage
		}
		submission.GroupId = groupId
	}

	image, message, err := readImage(c)
	if err != nil {
		return form, nil, nil, &util.HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	if message != "" {
		formErrors["image"] = message
	}
	submission.Image = image
	return form, submission, formErrors, nil
}

func addValidationErrors(formErrors FormErrors, validationErrs validator.ValidationErrors) {
	for _, fieldErr := range validationErrs {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			formErrors[field] = requiredMessage
		default:
			formErrors[field] = fmt.Sprintf("Failed the %v check.", fieldErr.Tag())
		}
	}
}

// readImage returns the uploaded image, or a form message when the upload is not an image.
// A missing upload is not an error.
func readImage(c *gin.Context) (*controllers.Image, string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if header.Size > maxImageSize {
		return nil, "File too large. The limit is 5 MB.", nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	mtype := mimetype.Detect(content)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, invalidImageMessage, nil
	}
	return &controllers.Image{
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
		Content:     bytes.NewReader(content),
	}, "", nil
}
