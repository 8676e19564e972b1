package detail

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/courtside/scorekeeper/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	// Set up test time
	s.testNow = time.Date(2025, 11, 8, 19, 30, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) scoreOf(points int) *int {
	return &points
}

func (s *RedisRepositoryTestSuite) TestAppendAndGetDetail() {
	record := &models.Detail{
		Timestamp:    s.testNow,
		Seq:          1,
		Period:       1,
		GameSeconds:  42,
		Kind:         models.EventScore,
		Team:         models.TeamRed,
		PlayerName:   "Jordan",
		PlayerNumber: "23",
		Value:        s.scoreOf(2),
	}

	err := s.repo.AppendDetail(context.Background(), &AppendDetailInput{
		Detail: record,
	})
	s.Require().NoError(err)

	output, err := s.repo.GetAllDetails(context.Background(), &GetAllDetailsInput{})
	s.Require().NoError(err)
	s.Require().Len(output.Details, 1)

	// Verify the record properties
	s.Equal(s.testNow.UnixMilli(), output.Details[0].Timestamp.UnixMilli())
	s.Equal(int64(1), output.Details[0].Seq)
	s.Equal(1, output.Details[0].Period)
	s.Equal(int64(42), output.Details[0].GameSeconds)
	s.Equal(models.EventScore, output.Details[0].Kind)
	s.Equal(models.TeamRed, output.Details[0].Team)
	s.Equal("Jordan", output.Details[0].PlayerName)
	s.Equal("23", output.Details[0].PlayerNumber)
	s.Require().NotNil(output.Details[0].Value)
	s.Equal(2, *output.Details[0].Value)
}

func (s *RedisRepositoryTestSuite) TestGetAllDetailsReturnsEveryEvent() {
	kinds := []models.EventKind{models.EventGameStart, models.EventSubIn, models.EventScore}
	for i, kind := range kinds {
		err := s.repo.AppendDetail(context.Background(), &AppendDetailInput{
			Detail: &models.Detail{
				Timestamp: s.testNow.Add(time.Duration(i) * time.Second),
				Seq:       int64(i),
				Period:    1,
				Kind:      kind,
			},
		})
		s.Require().NoError(err)
	}

	output, err := s.repo.GetAllDetails(context.Background(), &GetAllDetailsInput{})
	s.Require().NoError(err)
	s.Require().Len(output.Details, 3)

	// Delivery order is unspecified; sort before comparing
	sort.Slice(output.Details, func(i, j int) bool {
		return output.Details[i].Before(output.Details[j])
	})
	for i, kind := range kinds {
		s.Equal(kind, output.Details[i].Kind)
	}
}

func (s *RedisRepositoryTestSuite) TestCollidingTimestampsOverwrite() {
	first := &models.Detail{
		Timestamp: s.testNow,
		Seq:       1,
		Period:    1,
		Kind:      models.EventSubIn,
	}
	second := &models.Detail{
		Timestamp: s.testNow,
		Seq:       2,
		Period:    1,
		Kind:      models.EventSubOut,
	}

	err := s.repo.AppendDetail(context.Background(), &AppendDetailInput{Detail: first})
	s.Require().NoError(err)

	err = s.repo.AppendDetail(context.Background(), &AppendDetailInput{Detail: second})
	s.Require().NoError(err)

	output, err := s.repo.GetAllDetails(context.Background(), &GetAllDetailsInput{})
	s.Require().NoError(err)
	s.Require().Len(output.Details, 1)
	s.Equal(models.EventSubOut, output.Details[0].Kind)
}

func (s *RedisRepositoryTestSuite) TestClearDetails() {
	for i := 0; i < 3; i++ {
		err := s.repo.AppendDetail(context.Background(), &AppendDetailInput{
			Detail: &models.Detail{
				Timestamp: s.testNow.Add(time.Duration(i) * time.Second),
				Period:    1,
				Kind:      models.EventFoul,
			},
		})
		s.Require().NoError(err)
	}

	err := s.repo.ClearDetails(context.Background(), &ClearDetailsInput{})
	s.Require().NoError(err)

	output, err := s.repo.GetAllDetails(context.Background(), &GetAllDetailsInput{})
	s.Require().NoError(err)
	s.Empty(output.Details)
}

func (s *RedisRepositoryTestSuite) TestGetEmptyResults() {
	output, err := s.repo.GetAllDetails(context.Background(), &GetAllDetailsInput{})
	s.Require().NoError(err)
	s.Require().Empty(output.Details)
}

func (s *RedisRepositoryTestSuite) TestAppendZeroTimestamp() {
	err := s.repo.AppendDetail(context.Background(), &AppendDetailInput{
		Detail: &models.Detail{Kind: models.EventScore},
	})
	s.Require().Error(err)
}
