package sqlite_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/linguaflash/internal/models"
	"github.com/vytor/linguaflash/internal/repository"
	"github.com/vytor/linguaflash/internal/repository/sqlite"
	"github.com/vytor/linguaflash/internal/testutil"
)

type OnboardingRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.OnboardingRepository
}

func (s *OnboardingRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewOnboardingRepository(s.db)
}

func (s *OnboardingRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *OnboardingRepositorySuite) TestGet_Missing() {
	state, err := s.repo.Get(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Nil(state)
}

func (s *OnboardingRepositorySuite) TestSaveAndGet() {
	ctx := context.Background()

	err := s.repo.Save(ctx, models.OnboardingState{
		UserID:    "user-1",
		Completed: true,
		UserData:  json.RawMessage(`{"name":"Ana","level":"beginner"}`),
	})
	s.Require().NoError(err)

	state, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(state)
	s.Assert().True(state.Completed)
	s.Assert().JSONEq(`{"name":"Ana","level":"beginner"}`, string(state.UserData))
	s.Assert().False(state.UpdatedAt.IsZero())
}

func (s *OnboardingRepositorySuite) TestSave_Replaces() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Save(ctx, models.OnboardingState{UserID: "user-1", UserData: json.RawMessage(`{"a":1}`)}))
	s.Require().NoError(s.repo.Save(ctx, models.OnboardingState{UserID: "user-1", Completed: true}))

	state, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(state)
	s.Assert().True(state.Completed)
	s.Assert().Empty(state.UserData)
}

func (s *OnboardingRepositorySuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Save(ctx, models.OnboardingState{UserID: "user-1", Completed: true}))
	s.Require().NoError(s.repo.Delete(ctx, "user-1"))

	state, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Assert().Nil(state)
}

func TestOnboardingRepositorySuite(t *testing.T) {
	suite.Run(t, new(OnboardingRepositorySuite))
}
