package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Dumessi/pricing-agent-ocr/matching"
)

// SynonymDB 同义词组存储，实现 matching.SynonymStore。
// 查询结果按 group_id 排序，同分并列时上层据此保证可复现。
type SynonymDB struct {
	conn             *sql.DB
	tableCreateMutex sync.Mutex
}

// NewSynonymDB 打开同义词数据库并初始化表结构
func NewSynonymDB(dbPath string) (*SynonymDB, error) {
	return NewSynonymDBWithConfig(dbPath, DBConfig{})
}

// NewSynonymDBWithConfig 带连接池配置打开同义词数据库
func NewSynonymDBWithConfig(dbPath string, config DBConfig) (*SynonymDB, error) {
	conn, err := openSQLite(dbPath, config)
	if err != nil {
		return nil, err
	}

	db := &SynonymDB{conn: conn}
	db.tableCreateMutex.Lock()
	defer db.tableCreateMutex.Unlock()
	if err := createSynonymsSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close 关闭数据库连接
func (db *SynonymDB) Close() error {
	return db.conn.Close()
}

// Conn 返回底层连接，供测试使用
func (db *SynonymDB) Conn() *sql.DB {
	return db.conn
}

const synonymColumns = `group_id, standard_name, synonyms, material_code, specification,
	unit, factory_price, category, status`

// scanSynonymGroup 从行扫描一个同义词组
func scanSynonymGroup(scanner interface{ Scan(...interface{}) error }) (*matching.SynonymGroup, error) {
	var (
		group        matching.SynonymGroup
		synonymsJSON string
		spec         sql.NullString
		price        sql.NullFloat64
		status       int
	)
	err := scanner.Scan(&group.GroupID, &group.StandardName, &synonymsJSON, &group.MaterialCode,
		&spec, &group.Unit, &price, &group.Category, &status)
	if err != nil {
		return nil, err
	}

	group.Specification = nullString(spec)
	group.FactoryPrice = nullFloat(price)
	group.Active = status == 1
	if err := json.Unmarshal([]byte(synonymsJSON), &group.Synonyms); err != nil {
		return nil, fmt.Errorf("failed to decode synonyms for group %s: %w", group.GroupID, err)
	}
	return &group, nil
}

// FindExact 在启用组中精确查找文本（标准名称或同义词成员，大小写不敏感）
func (db *SynonymDB) FindExact(ctx context.Context, text, category string) (*matching.SynonymGroup, error) {
	// 标准名称可以直接用 SQL 命中
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+synonymColumns+` FROM synonym_groups
		 WHERE status = 1 AND category = ? AND lower(standard_name) = lower(?)
		 ORDER BY group_id LIMIT 1`,
		category, text)
	group, err := scanSynonymGroup(row)
	if err == nil {
		return group, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query synonym group by standard name: %w", err)
	}

	// 同义词成员存在 JSON 数组里，取回类别下的组后在内存中比对
	groups, err := db.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}
	textLower := strings.ToLower(text)
	for _, g := range groups {
		for _, syn := range g.Synonyms {
			if strings.ToLower(syn) == textLower {
				return g, nil
			}
		}
	}
	return nil, nil
}

// ListActive 返回类别下全部启用组，按 group_id 排序
func (db *SynonymDB) ListActive(ctx context.Context, category string) ([]*matching.SynonymGroup, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+synonymColumns+` FROM synonym_groups
		 WHERE status = 1 AND category = ?
		 ORDER BY group_id`,
		category)
	if err != nil {
		return nil, fmt.Errorf("failed to list synonym groups: %w", err)
	}
	defer rows.Close()
	return collectSynonymGroups(rows)
}

// GetGroup 按组 ID 查找，未命中返回 (nil, nil)
func (db *SynonymDB) GetGroup(ctx context.Context, groupID string) (*matching.SynonymGroup, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+synonymColumns+` FROM synonym_groups WHERE group_id = ?`, groupID)
	group, err := scanSynonymGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query synonym group: %w", err)
	}
	return group, nil
}

// CreateGroup 创建同义词组。GroupID 为空时生成 UUID，同义词去重后落库。
func (db *SynonymDB) CreateGroup(ctx context.Context, group *matching.SynonymGroup) (*matching.SynonymGroup, error) {
	if group.GroupID == "" {
		group.GroupID = uuid.New().String()
	}
	if group.Unit == "" {
		group.Unit = "个"
	}
	if group.Category == "" {
		group.Category = matching.CategoryMaterialName
	}
	group.Synonyms = dedupeSynonyms(group.Synonyms)
	group.Active = true

	synonymsJSON, err := json.Marshal(group.Synonyms)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synonyms: %w", err)
	}

	var price interface{}
	if group.FactoryPrice != nil {
		price = *group.FactoryPrice
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO synonym_groups (group_id, standard_name, synonyms, material_code,
			specification, unit, factory_price, category, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		group.GroupID, group.StandardName, string(synonymsJSON), group.MaterialCode,
		group.Specification, group.Unit, price, group.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to create synonym group: %w", err)
	}
	return group, nil
}

// ReplaceSynonyms 整组替换同义词集合，返回更新后的组。
// 组不存在时返回 (nil, nil)。
func (db *SynonymDB) ReplaceSynonyms(ctx context.Context, groupID string, synonyms []string) (*matching.SynonymGroup, error) {
	deduped := dedupeSynonyms(synonyms)
	synonymsJSON, err := json.Marshal(deduped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synonyms: %w", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE synonym_groups SET synonyms = ?, updated_at = CURRENT_TIMESTAMP WHERE group_id = ?`,
		string(synonymsJSON), groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to replace synonyms: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return db.GetGroup(ctx, groupID)
}

// DeleteGroup 删除同义词组，返回是否确有删除
func (db *SynonymDB) DeleteGroup(ctx context.Context, groupID string) (bool, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM synonym_groups WHERE group_id = ?`, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to delete synonym group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// ListByMaterialCode 返回指向某物料编码的全部组
func (db *SynonymDB) ListByMaterialCode(ctx context.Context, code string) ([]*matching.SynonymGroup, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+synonymColumns+` FROM synonym_groups WHERE material_code = ? ORDER BY group_id`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list synonym groups by material code: %w", err)
	}
	defer rows.Close()
	return collectSynonymGroups(rows)
}

// dedupeSynonyms 去重并排序，空白成员剔除
func dedupeSynonyms(synonyms []string) []string {
	seen := make(map[string]bool, len(synonyms))
	out := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// collectSynonymGroups 收集查询结果
func collectSynonymGroups(rows *sql.Rows) ([]*matching.SynonymGroup, error) {
	var groups []*matching.SynonymGroup
	for rows.Next() {
		group, err := scanSynonymGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan synonym group row: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate synonym group rows: %w", err)
	}
	return groups, nil
}
