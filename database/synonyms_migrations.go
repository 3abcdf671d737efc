package database

import (
	"database/sql"
	"fmt"
	"log"
)

// createSynonymsSchema 创建同义词组表结构。
// synonyms 列存 JSON 数组，更新时整组替换，从不部分修改。
func createSynonymsSchema(db *sql.DB) error {
	log.Println("初始化同义词组表结构...")

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS synonym_groups (
			group_id TEXT PRIMARY KEY,
			standard_name TEXT NOT NULL,
			synonyms TEXT NOT NULL DEFAULT '[]',
			material_code TEXT NOT NULL,
			specification TEXT,
			unit TEXT NOT NULL DEFAULT '个',
			factory_price REAL,
			category TEXT NOT NULL DEFAULT 'material_name',
			status INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_synonym_groups_standard_name ON synonym_groups(lower(standard_name))`,
		`CREATE INDEX IF NOT EXISTS idx_synonym_groups_category ON synonym_groups(category, status)`,
		`CREATE INDEX IF NOT EXISTS idx_synonym_groups_material_code ON synonym_groups(material_code)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run synonym migration: %w", err)
		}
	}

	return nil
}
