package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/Dumessi/pricing-agent-ocr/database"
	"github.com/Dumessi/pricing-agent-ocr/matching"
)

// 基础目录：覆盖常见消防与管道物料，用于开发环境与匹配效果验证
var baseMaterials = []matching.MaterialRecord{
	{Code: "M001", Name: "首联湿式报警阀DN100", Specification: "DN100", Unit: "个", FactoryPrice: price(1580), Category: map[string]string{"level1": "阀门", "level2": "报警阀"}},
	{Code: "M002", Name: "球阀DN50", Specification: "DN50", Unit: "个", FactoryPrice: price(85), Category: map[string]string{"level1": "阀门", "level2": "球阀"}},
	{Code: "M003", Name: "闸阀DN100", Specification: "DN100", Unit: "个", FactoryPrice: price(220), Category: map[string]string{"level1": "阀门", "level2": "闸阀"}},
	{Code: "M004", Name: "蝶阀DN150", Specification: "DN150", Unit: "个", FactoryPrice: price(310), Category: map[string]string{"level1": "阀门", "level2": "蝶阀"}},
	{Code: "M005", Name: "信号蝶阀DN100", Specification: "DN100", Unit: "个", FactoryPrice: price(460), Category: map[string]string{"level1": "阀门", "level2": "蝶阀"}},
	{Code: "M006", Name: "无缝钢管", Specification: "DN100*4", Unit: "米", FactoryPrice: price(68), Category: map[string]string{"level1": "管材", "level2": "钢管"}},
	{Code: "M007", Name: "镀锌钢管", Specification: "DN50", Unit: "米", FactoryPrice: price(32), Category: map[string]string{"level1": "管材", "level2": "钢管"}},
	{Code: "M008", Name: "沟槽弯头", Specification: "DN100*90°", Unit: "个", FactoryPrice: price(18), Category: map[string]string{"level1": "管件", "level2": "弯头"}},
	{Code: "M009", Name: "沟槽三通", Specification: "DN100*DN50", Unit: "个", FactoryPrice: price(25), Category: map[string]string{"level1": "管件", "level2": "三通"}},
	{Code: "M010", Name: "法兰", Specification: "DN100 PN16", Unit: "片", FactoryPrice: price(42), Category: map[string]string{"level1": "管件", "level2": "法兰"}},
	{Code: "M011", Name: "消火栓箱", Specification: "800*650*240", Unit: "套", FactoryPrice: price(380), Category: map[string]string{"level1": "消防器材"}},
	{Code: "M012", Name: "湿式报警阀DN150", Specification: "DN150", Unit: "个", FactoryPrice: price(1980), Category: map[string]string{"level1": "阀门", "level2": "报警阀"}},
	{Code: "M013", Name: "水流指示器DN100", Specification: "DN100", Unit: "个", FactoryPrice: price(120), Category: map[string]string{"level1": "仪表"}},
	{Code: "M014", Name: "压力表", Specification: "0-1.6MPa", Unit: "只", FactoryPrice: price(35), Category: map[string]string{"level1": "仪表", "level2": "压力表"}},
	{Code: "M015", Name: "末端试水装置DN25", Specification: "DN25", Unit: "套", FactoryPrice: price(260), Category: map[string]string{"level1": "消防器材"}},
}

var baseSynonyms = []matching.SynonymGroup{
	{StandardName: "首联湿式报警阀DN100", Synonyms: []string{"湿式阀", "湿式报警阀", "首联报警阀", "报警阀DN100"}, MaterialCode: "M001", Specification: "DN100", Unit: "个"},
	{StandardName: "球阀DN50", Synonyms: []string{"不锈钢球阀", "手动球阀", "球阀50"}, MaterialCode: "M002", Specification: "DN50", Unit: "个"},
	{StandardName: "沟槽弯头", Synonyms: []string{"卡箍弯头", "沟槽式弯头", "90度弯头"}, MaterialCode: "M008", Specification: "DN100*90°", Unit: "个"},
	{StandardName: "法兰", Synonyms: []string{"平焊法兰", "法兰片", "法兰盘"}, MaterialCode: "M010", Specification: "DN100 PN16", Unit: "片"},
}

var fakeNameParts = struct {
	prefixes []string
	kinds    []string
	specs    []string
	units    []string
}{
	prefixes: []string{"国标", "沟槽", "不锈钢", "碳钢", "镀锌", "衬塑", "铜质", ""},
	kinds:    []string{"球阀", "闸阀", "蝶阀", "止回阀", "弯头", "三通", "四通", "异径管", "喷头", "水泵接合器"},
	specs:    []string{"DN25", "DN32", "DN40", "DN50", "DN65", "DN80", "DN100", "DN125", "DN150", "DN200"},
	units:    []string{"个", "套", "米", "片"},
}

func price(v float64) *float64 { return &v }

func main() {
	dbPath := flag.String("db", "./data/materials.db", "SQLite 数据库路径")
	fakeCount := flag.Int("fake", 0, "额外生成的随机物料数量")
	seed := flag.Int64("seed", 0, "随机种子（0 表示随机）")
	flag.Parse()

	if dir := filepath.Dir(*dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("创建数据目录失败: %v", err)
		}
	}

	materialDB, err := database.NewMaterialDB(*dbPath)
	if err != nil {
		log.Fatalf("打开物料数据库失败: %v", err)
	}
	defer materialDB.Close()

	synonymDB, err := database.NewSynonymDB(*dbPath)
	if err != nil {
		log.Fatalf("打开同义词数据库失败: %v", err)
	}
	defer synonymDB.Close()

	ctx := context.Background()

	for i := range baseMaterials {
		baseMaterials[i].Status = true
		if err := materialDB.Upsert(ctx, &baseMaterials[i]); err != nil {
			log.Fatalf("写入物料 %s 失败: %v", baseMaterials[i].Code, err)
		}
	}
	log.Printf("基础物料写入完成: %d 条", len(baseMaterials))

	for i := range baseSynonyms {
		if _, err := synonymDB.CreateGroup(ctx, &baseSynonyms[i]); err != nil {
			log.Fatalf("写入同义词组 %q 失败: %v", baseSynonyms[i].StandardName, err)
		}
	}
	log.Printf("基础同义词组写入完成: %d 组", len(baseSynonyms))

	if *fakeCount > 0 {
		faker := gofakeit.New(*seed)
		for i := 0; i < *fakeCount; i++ {
			prefix := fakeNameParts.prefixes[faker.IntRange(0, len(fakeNameParts.prefixes)-1)]
			kind := fakeNameParts.kinds[faker.IntRange(0, len(fakeNameParts.kinds)-1)]
			spec := fakeNameParts.specs[faker.IntRange(0, len(fakeNameParts.specs)-1)]
			rec := matching.MaterialRecord{
				Code:          fmt.Sprintf("F%05d", i+1),
				Name:          prefix + kind + spec,
				Specification: spec,
				Unit:          fakeNameParts.units[faker.IntRange(0, len(fakeNameParts.units)-1)],
				FactoryPrice:  price(faker.Price(10, 5000)),
				Category:      map[string]string{"level1": "管件"},
				Status:        true,
			}
			if err := materialDB.Upsert(ctx, &rec); err != nil {
				log.Fatalf("写入随机物料 %s 失败: %v", rec.Code, err)
			}
		}
		log.Printf("随机物料写入完成: %d 条", *fakeCount)
	}

	total, err := materialDB.Count(ctx)
	if err != nil {
		log.Fatalf("统计物料数量失败: %v", err)
	}
	log.Printf("数据库物料总数: %d", total)
}
