package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/linguaflash/internal/repository"
	"github.com/vytor/linguaflash/internal/repository/sqlite"
	"github.com/vytor/linguaflash/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) TestGet_Missing() {
	doc, err := s.repo.Get(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Nil(doc)
}

func (s *ProgressRepositorySuite) TestPutAndGet() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, "user-1", []byte(`{"userId":"user-1","totalXP":20}`)))

	doc, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Assert().JSONEq(`{"userId":"user-1","totalXP":20}`, string(doc))

	var key string
	err = s.db.QueryRowContext(ctx, `SELECT storage_key FROM progress_documents WHERE user_id = ?`, "user-1").Scan(&key)
	s.Require().NoError(err)
	s.Assert().Equal(repository.StorageKey, key)
}

func (s *ProgressRepositorySuite) TestPut_OverwritesWholeDocument() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, "user-1", []byte(`{"totalXP":20,"badges":["first_lesson"]}`)))
	s.Require().NoError(s.repo.Put(ctx, "user-1", []byte(`{"totalXP":40}`)))

	doc, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Assert().JSONEq(`{"totalXP":40}`, string(doc))

	var count int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM progress_documents`).Scan(&count))
	s.Assert().Equal(1, count)
}

func (s *ProgressRepositorySuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, "user-1", []byte(`{}`)))
	s.Require().NoError(s.repo.Delete(ctx, "user-1"))

	doc, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Assert().Nil(doc)

	s.Assert().NoError(s.repo.Delete(ctx, "user-1"), "deleting a missing document is not an error")
}

func (s *ProgressRepositorySuite) TestListUserIDs() {
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		s.Require().NoError(s.repo.Put(ctx, id, []byte(`{}`)))
	}

	ids, err := s.repo.ListUserIDs(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"a", "b", "c"}, ids)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
