package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"openbook/internal/bootstrap"
	"openbook/internal/domain/opening"
	openbookErrors "openbook/internal/errors"
)

const repertoireCollection = "repertoires"

type RepertoireRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewRepertoireRepository(cfg bootstrap.Config, log *zap.SugaredLogger, mongo *mongo.Database) *RepertoireRepository {
	return &RepertoireRepository{
		cfg:   cfg,
		log:   log,
		mongo: mongo,
	}
}

func (r *RepertoireRepository) Save(ctx context.Context, rep opening.Repertoire) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := r.mongo.Collection(repertoireCollection)

	_, err := collection.InsertOne(ctx, rep)
	if err != nil {
		return fmt.Errorf("failed to insert repertoire: %w", err)
	}

	r.log.Infof("repertoire %s saved with %d lines", rep.ID, rep.LineCount)

	return nil
}

func (r *RepertoireRepository) Get(ctx context.Context, id string) (opening.Repertoire, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := r.mongo.Collection(repertoireCollection)

	var rep opening.Repertoire
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rep)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return opening.Repertoire{}, openbookErrors.ErrRepertoireNotFound
	}
	if err != nil {
		return opening.Repertoire{}, fmt.Errorf("failed to find repertoire: %w", err)
	}

	return rep, nil
}

// SaveToFile writes lines to path sorted, one per line. Lines are not
// deduplicated; duplicate branches stay visible in the output.
func SaveToFile(path string, lines []string) error {
	sorted := make([]string, len(lines))
	copy(sorted, lines)
	sort.Strings(sorted)

	var sb strings.Builder
	for _, line := range sorted {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
