package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/model"
	"github.com/navbryce/next-blog-be/services"
	"github.com/navbryce/next-blog-be/util"
)

const postImagePrefix = "posts/"

// Image is an uploaded file that already passed content sniffing.
type Image struct {
	ContentType string
	Extension   string
	Content     io.Reader
}

type PostSubmission struct {
	Text    string
	GroupId *int64
	Image   *Image
	// ClearImage drops the current image when no new one is uploaded.
	ClearImage bool
}

type CommentSubmission struct {
	Text string
}

// PostController owns every write to posts and comments. Text is stored as submitted,
// only trimmed; pages escape it on output.
type PostController struct {
	db    db.Database
	media services.MediaStore
}

func NewPostController(db db.Database, media services.MediaStore) *PostController {
	return &PostController{
		db:    db,
		media: media,
	}
}

func (pc *PostController) CreatePost(c context.Context, author *model.User, req *PostSubmission) (int64, *util.HTTPError) {
	blobName, httpErr := pc.uploadImage(c, req.Image)
	if httpErr != nil {
		return -1, httpErr
	}
	id, err := pc.db.CreatePost(c, &db.CreatePost{
		AuthorId: author.Id,
		Text:     strings.TrimSpace(req.Text),
		GroupId:  req.GroupId,
		Image:    blobName,
	})
	if err != nil {
		pc.deleteImage(c, blobName)
		return -1, util.BuildDbHTTPErr(err)
	}
	return id, nil
}

// EditPost applies req to post. The caller checks authorship.
func (pc *PostController) EditPost(c context.Context, post *model.Post, req *PostSubmission) *util.HTTPError {
	image := post.Image
	if req.Image != nil {
		blobName, httpErr := pc.uploadImage(c, req.Image)
		if httpErr != nil {
			return httpErr
		}
		image = blobName
	} else if req.ClearImage {
		image = ""
	}

	if err := pc.db.UpdatePost(c, post.Id, &db.UpdatePost{
		Text:    strings.TrimSpace(req.Text),
		GroupId: req.GroupId,
		Image:   image,
	}); err != nil {
		if image != post.Image {
			pc.deleteImage(c, image)
		}
		return util.BuildDbHTTPErr(err)
	}
	if image != post.Image {
		pc.deleteImage(c, post.Image)
	}
	return nil
}

// DeletePost removes post, its comments and its image. The caller checks authorship.
func (pc *PostController) DeletePost(c context.Context, post *model.Post) *util.HTTPError {
	if err := pc.db.DeletePost(c, post.Id); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	pc.deleteImage(c, post.Image)
	return nil
}

func (pc *PostController) AddComment(c context.Context, post *model.Post, author *model.User, req *CommentSubmission) (int64, *util.HTTPError) {
	id, err := pc.db.CreateComment(c, &db.CreateComment{
		PostId:   post.Id,
		AuthorId: author.Id,
		Text:     strings.TrimSpace(req.Text),
	})
	if err != nil {
		return -1, util.BuildDbHTTPErr(err)
	}
	return id, nil
}

func (pc *PostController) uploadImage(c context.Context, image *Image) (string, *util.HTTPError) {
	if image == nil {
		return "", nil
	}
	blobName := fmt.Sprintf("%s%s%s", postImagePrefix, uuid.NewString(), image.Extension)
	if err := pc.media.Upload(c, blobName, image.ContentType, image.Content); err != nil {
		log.Println("an error occurred while uploading a post image", err)
		return "", &util.HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "image upload failed",
		}
	}
	return blobName, nil
}

// deleteImage is best effort; a leftover blob is only logged.
func (pc *PostController) deleteImage(c context.Context, blobName string) {
	if blobName == "" {
		return
	}
	if err := pc.media.Delete(c, blobName); err != nil {
		log.Printf("an error occurred while deleting image %v: %v\n", blobName, err)
	}
}
