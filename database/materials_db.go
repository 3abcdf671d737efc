package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Dumessi/pricing-agent-ocr/matching"
)

// MaterialDB 物料目录存储，实现 matching.MaterialStore。
// 列出类查询一律按 material_code 排序，保证上层打分并列时结果可复现。
type MaterialDB struct {
	conn             *sql.DB
	tableCreateMutex sync.Mutex
}

// NewMaterialDB 打开物料目录数据库并初始化表结构
func NewMaterialDB(dbPath string) (*MaterialDB, error) {
	return NewMaterialDBWithConfig(dbPath, DBConfig{})
}

// NewMaterialDBWithConfig 带连接池配置打开物料目录数据库
func NewMaterialDBWithConfig(dbPath string, config DBConfig) (*MaterialDB, error) {
	conn, err := openSQLite(dbPath, config)
	if err != nil {
		return nil, err
	}

	db := &MaterialDB{conn: conn}
	db.tableCreateMutex.Lock()
	defer db.tableCreateMutex.Unlock()
	if err := createMaterialsSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close 关闭数据库连接
func (db *MaterialDB) Close() error {
	return db.conn.Close()
}

// Conn 返回底层连接，供测试与迁移工具使用
func (db *MaterialDB) Conn() *sql.DB {
	return db.conn
}

const materialColumns = `material_code, material_name, specification, unit, factory_price,
	category_level1, category_level2, attributes, status`

// scanMaterial 从行扫描一条物料记录
func scanMaterial(scanner interface{ Scan(...interface{}) error }) (*matching.MaterialRecord, error) {
	var (
		rec        matching.MaterialRecord
		spec       sql.NullString
		price      sql.NullFloat64
		cat1, cat2 sql.NullString
		attrsJSON  sql.NullString
		status     int
	)
	err := scanner.Scan(&rec.Code, &rec.Name, &spec, &rec.Unit, &price, &cat1, &cat2, &attrsJSON, &status)
	if err != nil {
		return nil, err
	}

	rec.Specification = nullString(spec)
	rec.FactoryPrice = nullFloat(price)
	rec.Status = status == 1

	rec.Category = map[string]string{}
	if v := nullString(cat1); v != "" {
		rec.Category["level1"] = v
	}
	if v := nullString(cat2); v != "" {
		rec.Category["level2"] = v
	}

	rec.Attributes = map[string]string{}
	if raw := nullString(attrsJSON); raw != "" {
		// 属性列损坏时降级为空属性，不让单行坏数据拖垮查询
		_ = json.Unmarshal([]byte(raw), &rec.Attributes)
	}
	return &rec, nil
}

// GetByName 按名称精确查找（大小写不敏感），未命中返回 (nil, nil)
func (db *MaterialDB) GetByName(ctx context.Context, name string) (*matching.MaterialRecord, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE lower(material_name) = lower(?) AND status = 1 ORDER BY material_code LIMIT 1`,
		name)
	rec, err := scanMaterial(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query material by name: %w", err)
	}
	return rec, nil
}

// GetByCode 按物料编码查找，未命中返回 (nil, nil)
func (db *MaterialDB) GetByCode(ctx context.Context, code string) (*matching.MaterialRecord, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE material_code = ?`, code)
	rec, err := scanMaterial(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query material by code: %w", err)
	}
	return rec, nil
}

// SearchNameAndSpec 名称或规格中同时包含 name 与 spec 的启用物料
func (db *MaterialDB) SearchNameAndSpec(ctx context.Context, name, spec string) ([]*matching.MaterialRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+materialColumns+` FROM materials
		 WHERE status = 1
		   AND (instr(lower(material_name), lower(?)) > 0 OR instr(lower(ifnull(specification,'')), lower(?)) > 0)
		   AND (instr(lower(material_name), lower(?)) > 0 OR instr(lower(ifnull(specification,'')), lower(?)) > 0)
		 ORDER BY material_code`,
		name, name, spec, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to search materials by name and spec: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// SearchByKeyword 名称中包含关键词的启用物料
func (db *MaterialDB) SearchByKeyword(ctx context.Context, keyword string) ([]*matching.MaterialRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+materialColumns+` FROM materials
		 WHERE status = 1 AND instr(lower(material_name), lower(?)) > 0
		 ORDER BY material_code`,
		keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search materials by keyword: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// ListActive 全部启用物料，按编码排序
func (db *MaterialDB) ListActive(ctx context.Context) ([]*matching.MaterialRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE status = 1 ORDER BY material_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// Search 组合条件搜索：关键词（编码或名称）、一级分类、规格子串
func (db *MaterialDB) Search(ctx context.Context, keyword, category, spec string, limit int) ([]*matching.MaterialRecord, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE status = 1`
	var args []interface{}

	if keyword != "" {
		query += ` AND (instr(lower(material_code), lower(?)) > 0 OR instr(lower(material_name), lower(?)) > 0)`
		args = append(args, keyword, keyword)
	}
	if category != "" {
		query += ` AND category_level1 = ?`
		args = append(args, category)
	}
	if spec != "" {
		query += ` AND instr(lower(ifnull(specification,'')), lower(?)) > 0`
		args = append(args, spec)
	}
	query += ` ORDER BY material_code`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search materials: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// Upsert 按编码插入或整行更新一条物料
func (db *MaterialDB) Upsert(ctx context.Context, rec *matching.MaterialRecord) error {
	attrsJSON := ""
	if len(rec.Attributes) > 0 {
		raw, err := json.Marshal(rec.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal attributes: %w", err)
		}
		attrsJSON = string(raw)
	}

	status := 0
	if rec.Status {
		status = 1
	}

	var price interface{}
	if rec.FactoryPrice != nil {
		price = *rec.FactoryPrice
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO materials (material_code, material_name, specification, unit, factory_price,
			category_level1, category_level2, attributes, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(material_code) DO UPDATE SET
			material_name = excluded.material_name,
			specification = excluded.specification,
			unit = excluded.unit,
			factory_price = excluded.factory_price,
			category_level1 = excluded.category_level1,
			category_level2 = excluded.category_level2,
			attributes = excluded.attributes,
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP`,
		rec.Code, rec.Name, rec.Specification, rec.Unit, price,
		rec.Category["level1"], rec.Category["level2"], attrsJSON, status)
	if err != nil {
		return fmt.Errorf("failed to upsert material %s: %w", rec.Code, err)
	}
	return nil
}

// Count 统计启用物料数量
func (db *MaterialDB) Count(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials WHERE status = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return count, nil
}

// collectMaterials 收集查询结果
func collectMaterials(rows *sql.Rows) ([]*matching.MaterialRecord, error) {
	var records []*matching.MaterialRecord
	for rows.Next() {
		rec, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate material rows: %w", err)
	}
	return records, nil
}
