// pipeline.go
package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"RideInsight/src/storage"
)

/******************** 批处理管道 ********************/

// SourceInput 一个待处理的数据源
// DF为按字符串读入的原始行集合；Variant为空时按表头自动嗅探
type SourceInput struct {
	Name    string
	Variant SourceVariant
	DF      dataframe.DataFrame
}

// Result 一次批处理的全部产出
// 每个阶段产生新集合而不是原地修改，阶段完成后其输出不再变动
type Result struct {
	Cleaned     []TripRecord               // 清洗后的最终记录集(唯一持久化产物的内存形态)
	NormStats   map[string]*NormalizeStats // 每个源的规范化计数
	FilterStats FilterStats                // 过滤阶段审计计数
	ByRiderType []CategoryStat             // 汇总表一: 按用户类型
	ByDay       []CategoryDayStat          // 汇总表二: 按用户类型+星期
	ByHour      []CategoryHourStat         // 汇总表三: 按用户类型+小时
}

// Pipeline 两段式批处理管道: 规范化/合并/派生/过滤 + 分组统计
type Pipeline struct {
	logger *storage.Logger
}

func NewPipeline(logger *storage.Logger) *Pipeline {
	return &Pipeline{logger: logger}
}

// Run 对一组数据源执行完整批处理
// 模式错误与时间戳解析错误为致命错误: 整批中止，不写任何输出；
// 单条记录的缺失/越界只影响行数，不会中止
func (p *Pipeline) Run(sources []SourceInput) (*Result, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("没有可处理的数据源")
	}

	// 1. 逐源规范化
	normStats := make(map[string]*NormalizeStats, len(sources))
	datasets := make([]*Dataset, 0, len(sources))
	for _, src := range sources {
		variant := src.Variant
		if variant == "" {
			v, err := DetectVariant(src.DF)
			if err != nil {
				return nil, err
			}
			variant = v
		}

		ds, stats, err := Normalize(src.DF, variant, src.Name)
		if err != nil {
			return nil, err
		}
		normStats[src.Name] = stats
		datasets = append(datasets, ds)

		p.logger.Info(fmt.Sprintf("规范化完成: %s (%s变体, %d行)", src.Name, variant, stats.Rows))
		for value, n := range stats.UnmappedRiderType {
			p.logger.Warning(fmt.Sprintf("%s: 用户类型出现未映射取值 %q 共%d次，已原样保留", src.Name, value, n))
		}
	}

	// 2. 合并
	merged, err := Merge(datasets...)
	if err != nil {
		return nil, err
	}
	p.logger.Info(fmt.Sprintf("合并完成: %d个源共%d行", len(datasets), len(merged.Records)))

	// 3. 派生特征
	featured := ComputeFeatures(merged.Records)

	// 4. 有效性过滤
	cleaned, fstats := CleanRecords(featured)
	p.logger.Info(fmt.Sprintf("过滤完成: 输入%d行, 缺站点剔除%d行, 时长越界剔除%d行, 剩余%d行",
		fstats.Input, fstats.DroppedMissingStation, fstats.DroppedBadDuration, fstats.Output))

	// 5. 分组统计(只针对过滤后的数据)
	return &Result{
		Cleaned:     cleaned,
		NormStats:   normStats,
		FilterStats: fstats,
		ByRiderType: AggregateByRiderType(cleaned),
		ByDay:       AggregateByRiderTypeAndDay(cleaned),
		ByHour:      AggregateByRiderTypeAndHour(cleaned),
	}, nil
}
