package forecast

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/zaiko-app/zaikogo/internal/logger"
	"github.com/zaiko-app/zaikogo/internal/store"
)

const (
	randomSeed = 42
	testRatio  = 0.2

	// Prediction requires a minimum per-product history.
	minPredictionRecords = 3

	// Fixed placeholder outputs; the model does not estimate these.
	fixedConfidence   = 0.8
	nextOrderLeadDays = 30
)

// artifact bundles everything a prediction needs. It is the unit of
// persistence, gob-encoded and keyed by dealer suffix on disk.
type artifact struct {
	Forest    *Forest
	Scaler    *Scaler
	TrainedAt time.Time
}

// Prediction is the demand estimate for one product.
type Prediction struct {
	PredictedDemand int       `json:"predicted_demand"`
	Confidence      float64   `json:"confidence"`
	NextOrderDate   time.Time `json:"next_order_date"`
}

// Service trains, persists and serves demand models. Loaded artifacts are
// cached per dealer for the process lifetime and invalidated only by an
// explicit retrain.
type Service struct {
	store    *store.Store
	modelDir string
	log      *zap.Logger

	mu    sync.Mutex
	cache map[string]*artifact
}

func NewService(st *store.Store, modelDir string) *Service {
	return &Service{
		store:    st,
		modelDir: modelDir,
		log:      logger.Get(),
		cache:    map[string]*artifact{},
	}
}

func (s *Service) artifactPath(dealer string) string {
	suffix := ""
	if dealer != "" {
		suffix = "_" + dealer
	}
	return filepath.Join(s.modelDir, fmt.Sprintf("demand_forecast%s.gob", suffix))
}

// Train fits a fresh model on the dealer's order history (every dealer when
// empty) and persists it, replacing any cached artifact. The returned
// message reports train and test R².
func (s *Service) Train(dealer string) (string, error) {
	orders, err := s.store.ListOrderHistoryByDealer(dealer)
	if err != nil {
		return "", err
	}

	features, err := buildFeatures(orders)
	if err != nil {
		return "", err
	}

	rows := make([][]float64, len(features))
	targets := make([]float64, len(features))
	for i, f := range features {
		rows[i] = f.vector()
		// The target is the product's own mean quantity, one of its input
		// features. Kept as-is: changing it changes every downstream
		// recommendation.
		targets[i] = f.MeanQty
	}

	rng := rand.New(rand.NewSource(randomSeed))

	// Deterministic 80/20 split.
	perm := rng.Perm(len(rows))
	nTest := int(math.Ceil(float64(len(rows)) * testRatio))
	var trainRows, testRows [][]float64
	var trainY, testY []float64
	for i, j := range perm {
		if i < nTest {
			testRows = append(testRows, rows[j])
			testY = append(testY, targets[j])
		} else {
			trainRows = append(trainRows, rows[j])
			trainY = append(trainY, targets[j])
		}
	}

	// One product's history collapses to a single feature row, which the
	// split would leave an empty train set.
	if len(trainRows) == 0 {
		return "", ErrInsufficientData
	}

	scaler := &Scaler{}
	scaler.Fit(trainRows)

	forest := trainForest(scaler.TransformAll(trainRows), trainY, rng)

	art := &artifact{Forest: forest, Scaler: scaler, TrainedAt: time.Now().UTC()}
	if err := s.save(dealer, art); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[dealer] = art
	s.mu.Unlock()

	trainScore := rSquared(forest, scaler, trainRows, trainY)
	testScore := rSquared(forest, scaler, testRows, testY)

	s.log.Info("demand model trained",
		zap.String("dealer", dealer),
		zap.Int("samples", len(rows)),
		zap.Float64("train_r2", trainScore),
		zap.Float64("test_r2", testScore))

	dealerInfo := ""
	if dealer != "" {
		dealerInfo = fmt.Sprintf("（取引会社: %s）", dealer)
	}
	return fmt.Sprintf("モデル訓練完了%s - 訓練精度: %.3f, テスト精度: %.3f",
		dealerInfo, trainScore, testScore), nil
}

func rSquared(f *Forest, sc *Scaler, rows [][]float64, y []float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	estimates := make([]float64, len(rows))
	for i, row := range rows {
		estimates[i] = f.Predict(sc.Transform(row))
	}
	return stat.RSquaredFrom(estimates, y, nil)
}

// Predict estimates next-period demand for one product. It requires at
// least 3 history records and a trained artifact for the dealer scope.
func (s *Service) Predict(productID uint, dealer string) (*Prediction, error) {
	art, err := s.load(dealer)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.ListOrderHistory(productID)
	if err != nil {
		return nil, err
	}
	if len(orders) < minPredictionRecords {
		return nil, ErrInsufficientProductData
	}

	now := time.Now().UTC()
	raw := predictionFeatures(orders, now)
	predicted := art.Forest.Predict(art.Scaler.Transform(raw))
	if predicted < 0 {
		predicted = 0
	}

	return &Prediction{
		PredictedDemand: int(predicted),
		Confidence:      fixedConfidence,
		NextOrderDate:   now.AddDate(0, 0, nextOrderLeadDays),
	}, nil
}

// load returns the cached artifact for a dealer, reading it from disk on
// first use. A missing file means the model was never trained.
func (s *Service) load(dealer string) (*artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if art, ok := s.cache[dealer]; ok {
		return art, nil
	}

	f, err := os.Open(s.artifactPath(dealer))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrModelNotTrained
	}
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()

	var art artifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	s.cache[dealer] = &art
	return &art, nil
}

func (s *Service) save(dealer string, art *artifact) error {
	if err := os.MkdirAll(s.modelDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(s.artifactPath(dealer))
	if err != nil {
		return fmt.Errorf("create model artifact: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(art); err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	return nil
}
