package command

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// 命令类型
const (
	TypeSubmitSignal       = "submit_signal"
	TypeCreateStrategy     = "create_strategy"
	TypeActivateStrategy   = "activate_strategy"
	TypeDeactivateStrategy = "deactivate_strategy"
	TypeCreateOrder        = "create_order"
	TypeRecordOrderFill    = "record_order_fill"

	TypeCreateDEXOrder  = "create_dex_order"
	TypeExecuteDEXOrder = "execute_dex_order"

	TypeFollowStrategy   = "follow_strategy"
	TypeUnfollowStrategy = "unfollow_strategy"
	TypeReplicateTrade   = "replicate_trade"

	TypeCreateSafetyConfig = "create_safety_config"
	TypeUpdateSafetyConfig = "update_safety_config"
	TypeValidateOrder      = "validate_order"

	TypeCreatePredictionMarket  = "create_prediction_market"
	TypeUpdateMarketProbability = "update_market_probability"
	TypeResolvePredictionMarket = "resolve_prediction_market"
	TypeLinkStrategyToMarket    = "link_strategy_to_market"

	TypeUpdateStrategy = "update_strategy"

	TypeCreateMultiHopOrder     = "create_multi_hop_order"
	TypeCheckConditionalOrders  = "check_conditional_orders"
	TypeTriggerConditionalOrder = "trigger_conditional_order"
	TypeCancelConditionalOrder  = "cancel_conditional_order"
	TypeCreateMicrochainProfile = "create_microchain_profile"
	TypeRecordMarketObservation = "record_market_observation"
	TypeRecordTradeOutcome      = "record_trade_outcome"
)

// Command 一条入站命令
// Signer 是宿主注入的调用者身份，Timestamp 是宿主注入的微秒时间戳；
// 两者随信封字节到达各副本，因此对所有执行者一致
type Command struct {
	Type      string `json:"type"`
	Signer    string `json:"signer,omitempty"`
	Timestamp uint64 `json:"timestamp"`
	Payload   any    `json:"payload,omitempty"`
}

// Decode 解析命令信封
// JSON 非法返回错误；未知类型不报错，Payload 置 nil，由状态机按无操作处理
func Decode(data []byte) (*Command, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid command json")
	}

	root := gjson.ParseBytes(data)
	cmd := &Command{
		Type:      root.Get("type").String(),
		Signer:    root.Get("signer").String(),
		Timestamp: root.Get("timestamp").Uint(),
	}

	payload := newPayload(cmd.Type)
	if payload == nil {
		return cmd, nil
	}

	raw := root.Get("payload").Raw
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), payload); err != nil {
		return nil, fmt.Errorf("decode %s payload failed: %w", cmd.Type, err)
	}
	cmd.Payload = payload

	return cmd, nil
}

// Encode 序列化命令信封
func (c *Command) Encode() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode %s failed: %w", c.Type, err)
	}
	return data, nil
}

// newPayload 按命令类型分配空载荷
func newPayload(cmdType string) any {
	switch cmdType {
	case TypeSubmitSignal:
		return &SubmitSignal{}
	case TypeCreateStrategy:
		return &CreateStrategy{}
	case TypeActivateStrategy:
		return &ActivateStrategy{}
	case TypeDeactivateStrategy:
		return &DeactivateStrategy{}
	case TypeCreateOrder:
		return &CreateOrder{}
	case TypeRecordOrderFill:
		return &RecordOrderFill{}
	case TypeCreateDEXOrder:
		return &CreateDEXOrder{}
	case TypeExecuteDEXOrder:
		return &ExecuteDEXOrder{}
	case TypeFollowStrategy:
		return &FollowStrategy{}
	case TypeUnfollowStrategy:
		return &UnfollowStrategy{}
	case TypeReplicateTrade:
		return &ReplicateTrade{}
	case TypeCreateSafetyConfig:
		return &CreateSafetyConfig{}
	case TypeUpdateSafetyConfig:
		return &UpdateSafetyConfig{}
	case TypeValidateOrder:
		return &ValidateOrder{}
	case TypeCreatePredictionMarket:
		return &CreatePredictionMarket{}
	case TypeUpdateMarketProbability:
		return &UpdateMarketProbability{}
	case TypeResolvePredictionMarket:
		return &ResolvePredictionMarket{}
	case TypeLinkStrategyToMarket:
		return &LinkStrategyToMarket{}
	case TypeUpdateStrategy:
		return &UpdateStrategy{}
	case TypeCreateMultiHopOrder:
		return &CreateMultiHopOrder{}
	case TypeCheckConditionalOrders:
		return &CheckConditionalOrders{}
	case TypeTriggerConditionalOrder:
		return &TriggerConditionalOrder{}
	case TypeCancelConditionalOrder:
		return &CancelConditionalOrder{}
	case TypeCreateMicrochainProfile:
		return &CreateMicrochainProfile{}
	case TypeRecordMarketObservation:
		return &RecordMarketObservation{}
	case TypeRecordTradeOutcome:
		return &RecordTradeOutcome{}
	default:
		return nil
	}
}
