package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

// Distributor 分发合约接口（payout sink）。
// 每个创作者有自己的分发合约，方法都以合约地址为参数。
type Distributor interface {
	// DripRate 读取合约配置的每窗口滴灌额度（单位：代币）
	DripRate(ctx context.Context, contractAddr string) (float64, error)
	// Distribute 直接分发
	Distribute(ctx context.Context, contractAddr string, recipients []string, amounts []*big.Int, total *big.Int) (string, error)
	// DistributeWithData 签名分发
	DistributeWithData(ctx context.Context, contractAddr string, encoded []byte, signature []byte) (string, error)
}

// 分发合约ABI定义（简化版）
const distributorABI = `[
	{
		"inputs": [],
		"name": "distributorConfig",
		"outputs": [
			{"name": "dripAmount", "type": "uint256"},
			{"name": "dripInterval", "type": "uint256"},
			{"name": "totalDays", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "recipients", "type": "address[]"},
			{"name": "amounts", "type": "uint256[]"},
			{"name": "totalAmount", "type": "uint256"}
		],
		"name": "distribute",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "data", "type": "bytes"},
			{"name": "signature", "type": "bytes"}
		],
		"name": "distributeWithData",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// weiPerToken wei到代币的换算系数
var weiPerToken = decimal.New(1, 18)

// DistributorClient 分发合约客户端
type DistributorClient struct {
	client      *ethclient.Client
	privateKey  *ecdsa.PrivateKey
	from        common.Address
	chainId     *big.Int
	gasLimit    uint64
	txTimeout   time.Duration
	contractABI abi.ABI
}

// NewDistributorClient 创建分发合约客户端
func NewDistributorClient(cfg config.ChainConfig) (*DistributorClient, error) {
	// 连接链节点
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	// 解析ABI
	parsedABI, err := abi.JSON(strings.NewReader(distributorABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse distributor ABI: %w", err)
	}

	return &DistributorClient{
		client:      client,
		privateKey:  privateKey,
		from:        crypto.PubkeyToAddress(privateKey.PublicKey),
		chainId:     big.NewInt(cfg.ChainId),
		gasLimit:    cfg.GasLimit,
		txTimeout:   time.Duration(cfg.TxTimeout) * time.Second,
		contractABI: parsedABI,
	}, nil
}

// SigningKey 分发签名私钥，供载荷构建器使用
func (c *DistributorClient) SigningKey() *ecdsa.PrivateKey {
	return c.privateKey
}

// From 交易发送地址
func (c *DistributorClient) From() common.Address {
	return c.from
}

// DripRate 读取分发合约配置的每窗口滴灌额度
func (c *DistributorClient) DripRate(ctx context.Context, contractAddr string) (float64, error) {
	if !common.IsHexAddress(contractAddr) {
		return 0, fmt.Errorf("invalid distributor contract address %q", contractAddr)
	}
	addr := common.HexToAddress(contractAddr)

	data, err := c.contractABI.Pack("distributorConfig")
	if err != nil {
		return 0, fmt.Errorf("failed to pack distributorConfig call: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("distributorConfig call failed: %w", err)
	}

	values, err := c.contractABI.Unpack("distributorConfig", result)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack distributorConfig: %w", err)
	}
	if len(values) < 1 {
		return 0, fmt.Errorf("unexpected distributorConfig result")
	}
	dripWei, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected distributorConfig drip amount type %T", values[0])
	}

	drip := decimal.NewFromBigInt(dripWei, 0).Div(weiPerToken).InexactFloat64()
	return drip, nil
}

// Distribute 调用合约的直接分发方法
func (c *DistributorClient) Distribute(ctx context.Context, contractAddr string, recipients []string, amounts []*big.Int, total *big.Int) (string, error) {
	addrs := make([]common.Address, 0, len(recipients))
	for _, r := range recipients {
		if !common.IsHexAddress(r) {
			return "", fmt.Errorf("invalid recipient address %q", r)
		}
		addrs = append(addrs, common.HexToAddress(r))
	}

	data, err := c.contractABI.Pack("distribute", addrs, amounts, total)
	if err != nil {
		return "", fmt.Errorf("failed to pack distribute call: %w", err)
	}

	return c.sendTransaction(ctx, contractAddr, data)
}

// DistributeWithData 调用合约的签名分发方法
func (c *DistributorClient) DistributeWithData(ctx context.Context, contractAddr string, encoded []byte, signature []byte) (string, error) {
	data, err := c.contractABI.Pack("distributeWithData", encoded, signature)
	if err != nil {
		return "", fmt.Errorf("failed to pack distributeWithData call: %w", err)
	}

	return c.sendTransaction(ctx, contractAddr, data)
}

// sendTransaction 发送交易并等待上链，返回交易哈希
func (c *DistributorClient) sendTransaction(ctx context.Context, contractAddr string, data []byte) (string, error) {
	if !common.IsHexAddress(contractAddr) {
		return "", fmt.Errorf("invalid distributor contract address %q", contractAddr)
	}
	to := common.HexToAddress(contractAddr)

	nonce, err := c.client.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      c.gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainId), c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	logger.Info("Sent distribution transaction %s to %s", signedTx.Hash().Hex(), to.Hex())

	// 确认上链并检查执行状态，只有确认成功才算广播成功
	waitCtx := ctx
	if c.txTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.txTimeout)
		defer cancel()
	}
	receipt, err := bind.WaitMined(waitCtx, c.client, signedTx)
	if err != nil {
		return "", fmt.Errorf("failed to wait for transaction %s: %w", signedTx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("transaction %s reverted", signedTx.Hash().Hex())
	}

	return receipt.TxHash.Hex(), nil
}
