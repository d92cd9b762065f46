package distribution

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount 金额为负数或非有限值
var ErrInvalidAmount = errors.New("invalid amount")

// weiPerToken 代币到最小单位的固定换算系数（18位小数）
var weiPerToken = decimal.New(1, 18)

// ABI编码参数，包级初始化一次
var (
	flatArgs  abi.Arguments // address[],uint256[],uint256 编码，用于计算数据哈希
	tupleArgs abi.Arguments // tuple(address[],uint256[],uint256) 编码，用于合约解码
)

func init() {
	addrSliceTy, err := abi.NewType("address[]", "", nil)
	if err != nil {
		panic(err)
	}
	uintSliceTy, err := abi.NewType("uint256[]", "", nil)
	if err != nil {
		panic(err)
	}
	uintTy, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	tupleTy, err := abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "recipients", Type: "address[]"},
		{Name: "amounts", Type: "uint256[]"},
		{Name: "total", Type: "uint256"},
	})
	if err != nil {
		panic(err)
	}

	flatArgs = abi.Arguments{{Type: addrSliceTy}, {Type: uintSliceTy}, {Type: uintTy}}
	tupleArgs = abi.Arguments{{Type: tupleTy}}
}

// distributionTuple tuple编码对应的Go结构，字段顺序与合约一致
type distributionTuple struct {
	Recipients []common.Address
	Amounts    []*big.Int
	Total      *big.Int
}

// Built 构建好的分发载荷
type Built struct {
	Recipients  []string // 校验和格式的地址
	AmountsWei  []string // wei字符串，与Recipients一一对应
	TotalWei    string
	EncodedData string // tuple编码，十六进制
	DataHash    string // flat编码的keccak256哈希，十六进制
	SignedHash  string // 哈希的EIP-191签名，十六进制
}

// Builder 分发载荷构建器，持有分发签名私钥
type Builder struct {
	key *ecdsa.PrivateKey
}

// NewBuilder 创建构建器
func NewBuilder(key *ecdsa.PrivateKey) *Builder {
	return &Builder{key: key}
}

// Build 将汇总结果构建为可广播的分发载荷。
// 编码、哈希、签名都是确定性的：相同输入必然得到逐字节相同的输出。
func (b *Builder) Build(recipients []string, amounts []float64, total float64) (*Built, error) {
	if len(recipients) != len(amounts) {
		return nil, fmt.Errorf("recipients/amounts length mismatch: %d != %d", len(recipients), len(amounts))
	}

	addrs := make([]common.Address, 0, len(recipients))
	weis := make([]*big.Int, 0, len(amounts))
	outRecipients := make([]string, 0, len(recipients))
	outAmounts := make([]string, 0, len(amounts))

	for i, r := range recipients {
		if !common.IsHexAddress(r) {
			return nil, fmt.Errorf("invalid recipient address %q", r)
		}
		wei, err := toWei(amounts[i])
		if err != nil {
			return nil, fmt.Errorf("recipient %s: %w", r, err)
		}
		addr := common.HexToAddress(r)
		addrs = append(addrs, addr)
		weis = append(weis, wei)
		outRecipients = append(outRecipients, addr.Hex())
		outAmounts = append(outAmounts, wei.String())
	}

	totalWei, err := toWei(total)
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	encoded, err := tupleArgs.Pack(distributionTuple{
		Recipients: addrs,
		Amounts:    weis,
		Total:      totalWei,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode distribution tuple: %w", err)
	}

	// 哈希针对flat编码计算，与tuple编码是两套独立的编码，不可混用
	flat, err := flatArgs.Pack(addrs, weis, totalWei)
	if err != nil {
		return nil, fmt.Errorf("failed to encode distribution data: %w", err)
	}
	dataHash := crypto.Keccak256Hash(flat)

	sig, err := crypto.Sign(accounts.TextHash(dataHash.Bytes()), b.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign data hash: %w", err)
	}
	// recovery id 调整为链上ecrecover期望的27/28
	sig[64] += 27

	return &Built{
		Recipients:  outRecipients,
		AmountsWei:  outAmounts,
		TotalWei:    totalWei.String(),
		EncodedData: hexutil.Encode(encoded),
		DataHash:    dataHash.Hex(),
		SignedHash:  hexutil.Encode(sig),
	}, nil
}

// SignerAddress 签名者地址
func (b *Builder) SignerAddress() common.Address {
	return crypto.PubkeyToAddress(b.key.PublicKey)
}

// toWei 代币数量转wei，拒绝负数和非有限值
func toWei(amount float64) (*big.Int, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: not finite", ErrInvalidAmount)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: negative", ErrInvalidAmount)
	}
	return decimal.NewFromFloat(amount).Mul(weiPerToken).BigInt(), nil
}
