package vocab

// Tables holds every keyword vocabulary the heuristic engines consume. The
// engines never embed word lists themselves; they receive a snapshot of these
// tables so alternative vocabularies can be swapped in (tests, other language
// mixes) without touching scoring logic.
type Tables struct {
	Sentiment SentimentTable `mapstructure:"sentiment" yaml:"sentiment"`
	Logic     LogicTable     `mapstructure:"logic" yaml:"logic"`
	Actions   ActionTable    `mapstructure:"actions" yaml:"actions"`
}

// SentimentTable drives the confidence estimator.
type SentimentTable struct {
	Positive  []string `mapstructure:"positive" yaml:"positive"`
	Uncertain []string `mapstructure:"uncertain" yaml:"uncertain"`
}

// LogicTable drives the four logic-evaluator checks.
type LogicTable struct {
	Market    []string `mapstructure:"market" yaml:"market"`
	Technical []string `mapstructure:"technical" yaml:"technical"`
	Risk      []string `mapstructure:"risk" yaml:"risk"`
	Causal    []string `mapstructure:"causal" yaml:"causal"`
}

// ActionTable maps directional tokens (both languages) onto the canonical
// BUY/SELL actions used by the extractor's group-role resolution.
type ActionTable struct {
	Buy  []string `mapstructure:"buy" yaml:"buy"`
	Sell []string `mapstructure:"sell" yaml:"sell"`
}

// Defaults returns the built-in vocabularies. The word lists mirror the ones
// the trading LLM has been observed to use, English plus Japanese.
func Defaults() Tables {
	return Tables{
		Sentiment: SentimentTable{
			Positive: []string{
				"強く推奨", "確信", "明確", "強気", "strong", "confident",
				"clear", "bullish", "bearish", "高い確率",
			},
			Uncertain: []string{
				"不確実", "疑問", "uncertain", "maybe", "possibly",
				"might", "could", "可能性",
			},
		},
		Logic: LogicTable{
			Market: []string{
				"trend", "support", "resistance", "volume", "momentum",
				"トレンド", "サポート", "レジスタンス", "出来高", "勢い",
			},
			Technical: []string{
				"rsi", "macd", "moving average", "bollinger", "ema", "sma",
				"adx", "stochastic", "移動平均", "ボリンジャー",
			},
			Risk: []string{
				"stop loss", "risk", "position size", "drawdown",
				"ストップロス", "リスク", "ポジションサイズ", "ドローダウン",
			},
			Causal: []string{"because", "なぜなら", "ため"},
		},
		Actions: ActionTable{
			Buy:  []string{"buy", "買い", "ロング"},
			Sell: []string{"sell", "売り", "ショート"},
		},
	}
}

// merge overlays non-empty lists from override onto base.
func merge(base, override Tables) Tables {
	out := base
	if len(override.Sentiment.Positive) > 0 {
		out.Sentiment.Positive = override.Sentiment.Positive
	}
	if len(override.Sentiment.Uncertain) > 0 {
		out.Sentiment.Uncertain = override.Sentiment.Uncertain
	}
	if len(override.Logic.Market) > 0 {
		out.Logic.Market = override.Logic.Market
	}
	if len(override.Logic.Technical) > 0 {
		out.Logic.Technical = override.Logic.Technical
	}
	if len(override.Logic.Risk) > 0 {
		out.Logic.Risk = override.Logic.Risk
	}
	if len(override.Logic.Causal) > 0 {
		out.Logic.Causal = override.Logic.Causal
	}
	if len(override.Actions.Buy) > 0 {
		out.Actions.Buy = override.Actions.Buy
	}
	if len(override.Actions.Sell) > 0 {
		out.Actions.Sell = override.Actions.Sell
	}
	return out
}
