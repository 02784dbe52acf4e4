package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/ml"
	_ "github.com/mattn/go-sqlite3"
)

var database *sql.DB

// InitDB initializes the SQLite database
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        gender VARCHAR(10),
        near_location VARCHAR(3),
        partner VARCHAR(3),
        promo_friends VARCHAR(3),
        phone VARCHAR(3),
        group_visits VARCHAR(3),
        contract_period INTEGER,
        age INTEGER,
        avg_additional_charges_total REAL,
        month_to_end_contract INTEGER,
        lifetime INTEGER,
        avg_class_frequency_total REAL,
        avg_class_frequency_current_month REAL,
        predicted_label INTEGER,
        probability REAL,
        created_at DATETIME
    );
    CREATE TABLE IF NOT EXISTS model_info (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        kind VARCHAR(30) NOT NULL,
        path TEXT NOT NULL,
        feature_count INTEGER,
        loaded_at DATETIME
    );
    `
	_, err = database.Exec(query)
	return err
}

// Close closes the database connection.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// PredictionRecord is one logged form submission with its outcome.
type PredictionRecord struct {
	ID          int64             `json:"id"`
	Record      ml.CustomerRecord `json:"record"`
	Label       int               `json:"label"`
	Probability float64           `json:"probability"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SavePrediction logs one completed prediction.
func SavePrediction(record ml.CustomerRecord, result ml.PredictionResult) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(`
        INSERT INTO predictions (
            gender, near_location, partner, promo_friends, phone, group_visits,
            contract_period, age, avg_additional_charges_total,
            month_to_end_contract, lifetime, avg_class_frequency_total,
            avg_class_frequency_current_month, predicted_label, probability, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		record.Gender,
		record.NearLocation,
		record.Partner,
		record.PromoFriends,
		record.Phone,
		record.GroupVisits,
		record.ContractPeriod,
		record.Age,
		record.AvgAdditionalChargesTotal,
		record.MonthToEndContract,
		record.Lifetime,
		record.AvgClassFrequencyTotal,
		record.AvgClassFrequencyCurrentMonth,
		result.Label,
		result.Probability,
		time.Now().UTC(),
	)
	return err
}

// RecentPredictions returns the most recent logged predictions.
func RecentPredictions(limit int) ([]PredictionRecord, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := database.Query(`
        SELECT id, gender, near_location, partner, promo_friends, phone, group_visits,
               contract_period, age, avg_additional_charges_total,
               month_to_end_contract, lifetime, avg_class_frequency_total,
               avg_class_frequency_current_month, predicted_label, probability, created_at
        FROM predictions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0)
	for rows.Next() {
		var p PredictionRecord
		err := rows.Scan(&p.ID,
			&p.Record.Gender, &p.Record.NearLocation, &p.Record.Partner,
			&p.Record.PromoFriends, &p.Record.Phone, &p.Record.GroupVisits,
			&p.Record.ContractPeriod, &p.Record.Age, &p.Record.AvgAdditionalChargesTotal,
			&p.Record.MonthToEndContract, &p.Record.Lifetime, &p.Record.AvgClassFrequencyTotal,
			&p.Record.AvgClassFrequencyCurrentMonth, &p.Label, &p.Probability, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

// SaveModelInfo records which artifact generation is serving predictions.
func SaveModelInfo(kind, path string, featureCount int) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(`
        INSERT INTO model_info (kind, path, feature_count, loaded_at)
        VALUES (?, ?, ?, ?)`,
		kind, path, featureCount, time.Now().UTC())
	return err
}

// ModelInfo describes one loaded artifact set.
type ModelInfo struct {
	Kind         string    `json:"kind"`
	Path         string    `json:"path"`
	FeatureCount int       `json:"feature_count"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// LatestModelInfo returns the most recently loaded artifact set.
func LatestModelInfo() (*ModelInfo, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	var info ModelInfo
	err := database.QueryRow(`
        SELECT kind, path, feature_count, loaded_at
        FROM model_info
        ORDER BY loaded_at DESC, id DESC
        LIMIT 1`).Scan(&info.Kind, &info.Path, &info.FeatureCount, &info.LoadedAt)
	if err != nil {
		return nil, err
	}
	return &info, nil
}
