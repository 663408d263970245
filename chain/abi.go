package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABI of the blind-auction contract surface this core talks to. The view
// functions feed the read adapter; bid/reveal/auctionEnd/withdraw feed the
// signer; AuctionCreated carries the NFT metadata attached at creation.
const auctionABIJSON = `[
  {"type":"function","name":"beneficiary","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"biddingStart","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"biddingEnd","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"revealEnd","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"ended","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"highestBid","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"highestBidder","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"bid","stateMutability":"payable","inputs":[{"name":"blindedBid","type":"bytes32"}],"outputs":[]},
  {"type":"function","name":"reveal","stateMutability":"nonpayable","inputs":[{"name":"values","type":"uint256[]"},{"name":"fakes","type":"bool[]"},{"name":"secrets","type":"bytes32[]"}],"outputs":[]},
  {"type":"function","name":"auctionEnd","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"event","name":"AuctionCreated","anonymous":false,"inputs":[
    {"name":"auction","type":"address","indexed":true},
    {"name":"name","type":"string","indexed":false},
    {"name":"description","type":"string","indexed":false},
    {"name":"imageRef","type":"string","indexed":false},
    {"name":"minPrice","type":"uint256","indexed":false}]}
]`

var auctionABI = mustParseABI(auctionABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic("chain: invalid auction ABI: " + err.Error())
	}
	return parsed
}
