// Package filestore wraps the fileserver package with a recipe-aware interface.
package filestore

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/idoBeitOn/MealMate/internal/fileserver"
)

const (
	recipesDir = "recipes"
)

const (
	DefaultURLPrefix = "/files"
)

type FileStoreInterface interface {
	WriteRecipeImage(recipeID int64, imageID uint64, suffix string, data []byte) (urlPath string, n int, err error)
	DeleteURLPath(urlpath string) error
	FileURL(urlpath string) string
}

type FileStore struct {
	urlPathPrefix string
	host          string
	fs            fileserver.FileServerInterface
}

var _ FileStoreInterface = (FileStore)(FileStore{})

func New(baseDirectory, urlPathPrefix, host string) FileStore {
	return FileStore{
		urlPathPrefix: urlPathPrefix,
		host:          strings.TrimRight(host, "/"),
		fs:            fileserver.New(baseDirectory),
	}
}

func (f FileStore) WriteRecipeImage(recipeID int64, imageID uint64, suffix string, data []byte) (urlPath string, n int, err error) {
	path := recipeImagePath(recipeID, imageID, suffix)
	fullpath, n, err := f.fs.Write(path, data)
	if err != nil {
		return fullpath, n, err
	}
	return absPathToURLPath(fullpath, f.fs.BaseDirectory(), f.urlPathPrefix), n, err
}

func (f FileStore) FileURL(urlpath string) string {
	return f.host + "/" + strings.TrimLeft(urlpath, "/")
}

func (f FileStore) DeleteURLPath(urlpath string) error {
	return f.fs.Delete(trimURLPathPrefix(urlpath, f.urlPathPrefix))
}

func recipeImagePath(recipeID int64, imageID uint64, suffix string) string {
	return filepath.Join(recipesDir,
		strconv.FormatInt(recipeID, 10), fmt.Sprintf("%d%s", imageID, suffix))
}

func absPathToURLPath(fullpath string, baseDir string, prefix string) (urlpath string) {
	pathPrefix := strings.Trim(prefix, "/")
	relPath := strings.TrimLeft(trimBaseDir(fullpath, baseDir), "/")
	return "/" + pathPrefix + "/" + relPath
}

func trimBaseDir(path string, baseDir string) string {
	path = filepath.Clean(path)
	baseDir = filepath.Clean(baseDir)
	return strings.TrimPrefix(path, baseDir)
}

func trimURLPathPrefix(path string, prefix string) string {
	urlpath := strings.Trim(path, "/")
	pathPrefix := strings.Trim(prefix, "/")
	urlpath = strings.TrimPrefix(urlpath, pathPrefix)
	return strings.TrimLeft(urlpath, "/")
}
