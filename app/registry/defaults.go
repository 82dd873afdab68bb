package registry

import (
	"fmt"

	"github.com/lysyi3m/prop-comb/app/proposal"
)

// defaultSources returns the built-in descriptors for every tracked
// standard. The cascade order per standard is fixed: primary,
// html_fallback, aggressive_fallback, final_fallback (seed, no I/O).
func defaultSources() []Source {
	return []Source{
		{
			Standard:     "EIP",
			Name:         "Ethereum Improvement Proposals",
			URL:          "https://eips.ethereum.org/all",
			APIURL:       "https://api.github.com/repos/ethereum/EIPs/contents/EIPS",
			LinkTemplate: "https://eips.ethereum.org/EIPS/eip-%d",
			FilePattern:  `eip-(\d+)\.md`,
			Tiers: []Tier{
				{Name: TierPrimary, Strategy: StrategyFileListing, Parser: ParserFrontmatter, URL: "https://api.github.com/repos/ethereum/EIPs/contents/EIPS"},
				{Name: TierHTMLFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://eips.ethereum.org/all"},
				{Name: TierAggressiveFallback, Strategy: StrategyCommitFeed, Parser: ParserCommitFeed, URL: "https://github.com/ethereum/EIPs/commits/master.atom"},
				{Name: TierFinalFallback, Strategy: StrategySeed},
			},
			Seed: seedRecords("https://eips.ethereum.org/EIPS/eip-%d", []seed{
				{7702, "Set EOA account code", "Final", ""},
				{7691, "Blob throughput increase", "Final", ""},
				{7623, "Increase calldata cost", "Final", ""},
				{7594, "PeerDAS - Peer Data Availability Sampling", "Review", ""},
				{4844, "Shard Blob Transactions", "Final", ""},
			}),
		},
		{
			Standard:     "BIP",
			Name:         "Bitcoin Improvement Proposals",
			URL:          "https://bips.dev/",
			APIURL:       "https://api.github.com/repos/bitcoin/bips/contents",
			LinkTemplate: "https://bips.dev/%d",
			FilePattern:  `bip-(\d+)\.mediawiki`,
			Tiers: []Tier{
				{Name: TierPrimary, Strategy: StrategyFileListing, Parser: ParserWiki, URL: "https://api.github.com/repos/bitcoin/bips/contents"},
				{Name: TierHTMLFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://bips.dev/"},
				{Name: TierAggressiveFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://github.com/bitcoin/bips"},
				{Name: TierFinalFallback, Strategy: StrategySeed},
			},
			Seed: seedRecords("https://bips.dev/%d", []seed{
				{443, "OP_CHECKCONTRACTVERIFY", "Draft", ""},
				{431, "Topology Restrictions for Pinning", "Draft", ""},
				{430, "OP_CHECKSIGFROMSTACK for Tapscript", "Draft", ""},
				{425, "OP_CHECKTEMPLATEVERIFY", "Draft", ""},
				{420, "Consensus changes for CTV", "Draft", ""},
			}),
		},
		{
			Standard:     "TIP",
			Name:         "Tron Improvement Proposals",
			URL:          "https://github.com/tronprotocol/tips/issues",
			APIURL:       "https://api.github.com/repos/tronprotocol/tips/issues",
			LinkTemplate: "https://github.com/tronprotocol/tips/issues/%d",
			FilePattern:  `tip-(\d+)\.md`,
			Tiers: []Tier{
				{Name: TierPrimary, Strategy: StrategyIssueListing, Parser: ParserIssue, URL: "https://api.github.com/repos/tronprotocol/tips/issues"},
				{Name: TierHTMLFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://github.com/tronprotocol/tips/issues"},
				{Name: TierAggressiveFallback, Strategy: StrategyFileListing, Parser: ParserFrontmatter, URL: "https://api.github.com/repos/tronprotocol/tips/contents"},
				{Name: TierFinalFallback, Strategy: StrategySeed},
			},
			Seed: seedRecords("https://github.com/tronprotocol/tips/issues/%d", []seed{
				{789, "Proposal: Decrease the transaction fees", "Open", ""},
				{785, "TIP-7951: Precompile for secp256r1 Curve Support", "Open", ""},
				{782, "Discussion: Enable Energy Sponsorship for Contracts Deployed by Contracts", "Open", ""},
				{772, "SRs produce blocks strictly in descending order of votes at the beginning of epoch", "Open", ""},
				{771, "Discussion: Potential Adjustment of Transaction Fees", "Open", ""},
			}),
		},
		{
			Standard:     "BEP",
			Name:         "BNB Chain Evolution Proposals",
			URL:          "https://github.com/bnb-chain/BEPs/blob/master/README.md",
			APIURL:       "https://api.github.com/repos/bnb-chain/BEPs/contents/BEPs",
			LinkTemplate: "https://github.com/bnb-chain/BEPs/blob/master/BEPs/BEP-%d.md",
			FilePattern:  `bep-(\d+)\.md`,
			Tiers: []Tier{
				{Name: TierPrimary, Strategy: StrategyDirectPage, Parser: ParserTableRow, URL: "https://raw.githubusercontent.com/bnb-chain/BEPs/master/README.md"},
				{Name: TierHTMLFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://github.com/bnb-chain/BEPs"},
				{Name: TierAggressiveFallback, Strategy: StrategyFileListing, Parser: ParserFrontmatter, URL: "https://api.github.com/repos/bnb-chain/BEPs/contents/BEPs"},
				{Name: TierFinalFallback, Strategy: StrategySeed},
			},
			Seed: seedRecords("https://github.com/bnb-chain/BEPs/blob/master/BEPs/BEP-%d.md", []seed{
				{344, "Implement EIP-6780: SELFDESTRUCT only in same transaction", "Draft", ""},
				{343, "Implement EIP-1153: Transient storage opcodes", "Draft", ""},
				{342, "Implement EIP-5656: MCOPY", "Draft", ""},
				{341, "Validator Committee", "Draft", ""},
				{336, "Fast Finality Mechanism", "Draft", ""},
			}),
		},
		{
			Standard:     "SUP",
			Name:         "Superchain Upgrade Proposals",
			URL:          "https://github.com/ethereum-optimism/SUPs",
			APIURL:       "https://api.github.com/repos/ethereum-optimism/SUPs/issues",
			LinkTemplate: "https://github.com/ethereum-optimism/SUPs/pull/%d",
			FilePattern:  `sup-(\d+)`,
			Tiers: []Tier{
				{Name: TierPrimary, Strategy: StrategyIssueListing, Parser: ParserIssue, URL: "https://api.github.com/repos/ethereum-optimism/SUPs/issues"},
				{Name: TierHTMLFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://github.com/ethereum-optimism/SUPs/pulls"},
				{Name: TierAggressiveFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://github.com/ethereum-optimism/SUPs/issues"},
				{Name: TierFinalFallback, Strategy: StrategySeed},
			},
			Seed: seedRecords("https://github.com/ethereum-optimism/SUPs/pull/%d", []seed{
				{1, "Batched Commitments for AltDA-based OP Stack Chains", "Open", "2025-01-23"},
				{2, "SUP Process and Guidelines", "Draft", ""},
				{3, "Standard Upgrade Proposal Template", "Draft", ""},
			}),
		},
		{
			Standard:     "LIP",
			Name:         "Litecoin Improvement Proposals",
			URL:          "https://github.com/litecoin-project/lips",
			APIURL:       "https://api.github.com/repos/litecoin-project/lips/contents",
			LinkTemplate: "https://github.com/litecoin-project/lips/blob/master/lip-%04d.mediawiki",
			FilePattern:  `lip-(\d+)\.(?:md|mediawiki)`,
			Tiers: []Tier{
				{Name: TierPrimary, Strategy: StrategyFileListing, Parser: ParserWiki, URL: "https://api.github.com/repos/litecoin-project/lips/contents"},
				{Name: TierHTMLFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://github.com/litecoin-project/lips"},
				{Name: TierAggressiveFallback, Strategy: StrategyDirectPage, Parser: ParserHTML, URL: "https://github.com/litecoin-project/lips/tree/master"},
				{Name: TierFinalFallback, Strategy: StrategySeed},
			},
			Seed: seedRecords("https://github.com/litecoin-project/lips/blob/master/lip-%04d.mediawiki", []seed{
				{1, "Litecoin Improvement Proposal Process", "Draft", ""},
				{2, "LIP Template and Guidelines", "Draft", ""},
				{3, "Standard LIP Format", "Draft", ""},
			}),
		},
	}
}

type seed struct {
	number  int
	title   string
	status  string
	created string
}

func seedRecords(linkTemplate string, seeds []seed) []proposal.Record {
	records := make([]proposal.Record, 0, len(seeds))
	for _, s := range seeds {
		created := s.created
		if created == "" {
			created = proposal.CreatedUnknown
		}
		records = append(records, proposal.Record{
			Number:    s.number,
			Title:     s.title,
			RawStatus: s.status,
			Status:    proposal.BucketStatus(s.status),
			Type:      "Unknown",
			Created:   created,
			Link:      fmt.Sprintf(linkTemplate, s.number),
			Summary:   proposal.Summarize(s.title),
			Seed:      true,
		})
	}
	return records
}
