// Package services holds the use cases of the API. Every operation takes
// the caller explicitly and reports expected failures as *models.DomainError;
// any other error is an unexpected store or storage failure.
package services

import (
	"errors"
	"os"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(os.Getenv("APP_ENV")))
}

// SetLogLevel aligns this package's logger with the application level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// PageRequest is a 1-based page of Limit rows
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) repository() repository.Page {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return repository.Page{Limit: p.Limit, Offset: (page - 1) * p.Limit}
}

// ListResult is one page of results and the total number of matches
type ListResult[T any] struct {
	Count   int64
	Results []T
}

func requireCaller(caller models.Caller) error {
	if caller.IsAnonymous() {
		return models.ErrNotAuthenticated
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound to missing, passing other errors through
func notFound(err error, missing *models.DomainError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return err
}

// duplicate maps gorm.ErrDuplicatedKey to exists, passing other errors through
func duplicate(err error, exists *models.DomainError) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return exists
	}
	return err
}

func uniqueIDs[T any](items []T, id func(T) uint) []uint {
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if !seen[id(item)] {
			seen[id(item)] = true
			ids = append(ids, id(item))
		}
	}
	return ids
}
