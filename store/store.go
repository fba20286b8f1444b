// Package store は計算結果を SQLite に保存する。
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hhkbp2/go-logging"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/udawtr/rce1d-go/rce"
)

// 計算1回分の概要
type Run struct {
	ID        string  `db:"id"`
	CreatedAt string  `db:"created_at"` // RFC3339
	Label     string  `db:"label"`
	Solver    string  `db:"solver"`
	Status    string  `db:"status"`
	Steps     int     `db:"steps"`
	MaxDT     float64 `db:"max_dt"`     // [K]
	CO2       float64 `db:"co2"`        // [ppmv]
	LapseRate float64 `db:"lapse_rate"` // [K/km]
	Timestep  float64 `db:"timestep"`   // [day]
	Tsfc      float64 `db:"tsfc"`       // [K]
	OLR       float64 `db:"olr"`        // [W/m2]
	FTOA      float64 `db:"ftoa"`       // [W/m2]
	Icold     int     `db:"icold"`
	Pcold     float64 `db:"pcold"` // [hPa]
	Tcold     float64 `db:"tcold"` // [K]
	Iconv     int     `db:"iconv"` // 未設定の場合は -1
	Pconv     float64 `db:"pconv"` // [hPa]
	Tconv     float64 `db:"tconv"` // [K]
}

// 主格子1点分のプロファイル
type Level struct {
	RunID string  `db:"run_id"`
	Idx   int     `db:"idx"`
	P     float64 `db:"p"`
	T     float64 `db:"t"`
	Q     float64 `db:"q"`
	RH    float64 `db:"rh"`
	O3    float64 `db:"o3"`
	Z     float64 `db:"z"`
	HRLW  float64 `db:"hr_lw"`
	HRSW  float64 `db:"hr_sw"`
}

// DB は計算結果の保存先
type DB struct {
	conn *sqlx.DB
}

// SQLite のデータベースを開く (存在しない場合は作成する)
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logging.GetLogger(rce.LoggerName).Debugf("データベース: %s", path)
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		label TEXT NOT NULL,
		solver TEXT NOT NULL,
		status TEXT NOT NULL,
		steps INTEGER NOT NULL,
		max_dt REAL NOT NULL,
		co2 REAL NOT NULL,
		lapse_rate REAL NOT NULL,
		timestep REAL NOT NULL,
		tsfc REAL NOT NULL,
		olr REAL NOT NULL,
		ftoa REAL NOT NULL,
		icold INTEGER NOT NULL,
		pcold REAL NOT NULL,
		tcold REAL NOT NULL,
		iconv INTEGER NOT NULL,
		pconv REAL NOT NULL,
		tconv REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS levels (
		run_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		p REAL NOT NULL,
		t REAL NOT NULL,
		q REAL NOT NULL,
		rh REAL NOT NULL,
		o3 REAL NOT NULL,
		z REAL NOT NULL,
		hr_lw REAL NOT NULL,
		hr_sw REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_label ON runs(label);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// """計算結果を保存する
// Args:
//
//	label(string): 任意のラベル (スイープ名など)
//	s(*rce.Solver): 使用したソルバー
//	chem(rce.ChemParm): 使用した大気組成
//	res(*rce.Result): 計算結果
//
// Returns:
//
//	*Run: 保存した概要 (ID は新規の UUID)
//
// """
func (db *DB) SaveRun(label string, s *rce.Solver, chem rce.ChemParm, res *rce.Result) (*Run, error) {
	atm := res.Atmosphere
	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Label:     label,
		Solver:    s.Kind().String(),
		Status:    res.Status.String(),
		Steps:     res.Steps,
		MaxDT:     res.MaxDT,
		CO2:       chem.CO2,
		LapseRate: s.LapseRate(),
		Timestep:  s.Timestep(),
		Tsfc:      atm.Tsfc(),
		Icold:     atm.Icold(),
		Pcold:     atm.Pcold(),
		Tcold:     atm.Tcold(),
		Iconv:     -1,
	}
	if res.Flux != nil {
		run.OLR = res.Flux.OLR()
		run.FTOA = res.Flux.TOA()
	}
	if atm.IconvSet() {
		run.Iconv = atm.Iconv()
		run.Pconv = atm.Pconv()
		run.Tconv = atm.Tconv()
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO runs
		(id, created_at, label, solver, status, steps, max_dt, co2, lapse_rate, timestep,
		 tsfc, olr, ftoa, icold, pcold, tcold, iconv, pconv, tconv)
		VALUES
		(:id, :created_at, :label, :solver, :status, :steps, :max_dt, :co2, :lapse_rate, :timestep,
		 :tsfc, :olr, :ftoa, :icold, :pcold, :tcold, :iconv, :pconv, :tconv)`, run); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO levels
		(run_id, idx, p, t, q, rh, o3, z, hr_lw, hr_sw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	p, t, q, rh, o3, z := atm.P(), atm.T(), atm.Q(), atm.RH(), atm.O3(), atm.Z()
	for i := range p {
		var hrlw, hrsw float64
		if res.HR != nil {
			hrlw, hrsw = res.HR.LW[i], res.HR.SW[i]
		}
		if _, err := stmt.Exec(run.ID, i, p[i], t[i], q[i], rh[i], o3[i], z[i], hrlw, hrsw); err != nil {
			return nil, fmt.Errorf("insert level %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

// 保存済みの計算の一覧 (保存順)
func (db *DB) Runs() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT * FROM runs ORDER BY created_at, rowid")
	return runs, err
}

// ラベルを指定して計算の一覧を取得する
func (db *DB) RunsByLabel(label string) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT * FROM runs WHERE label = ? ORDER BY created_at, rowid", label)
	return runs, err
}

func (db *DB) Run(id string) (*Run, error) {
	var run Run
	if err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &run, nil
}

// 計算のプロファイルを上端から順に取得する
func (db *DB) Levels(id string) ([]Level, error) {
	var levels []Level
	err := db.conn.Select(&levels, "SELECT * FROM levels WHERE run_id = ? ORDER BY idx", id)
	return levels, err
}
