// Package planner provides the calculation core of a UK household finance
// planner. It is designed to be local-first and auditable: all functions are
// pure, deterministic computations over plain immutable data, so identical
// inputs always produce identical outputs and callers keep full control over
// persistence and presentation.
//
// The core functionalities include:
//   - Capital Gains Tax Engine: applying HMRC share-matching rules (same-day,
//     30-day bed-and-breakfast, Section 104 pooling) to a transaction history
//     to compute realized gains per tax year and unrealised gains on current
//     holdings.
//   - Drawdown Sequencer: simulating year-by-year retirement withdrawals from
//     pension, ISA, GIA and cash pots under tax-optimal or proportional
//     strategies, and comparing the tax cost of the two.
//   - Scenario Override Composer: deriving hypothetical household variants by
//     applying sparse overrides without mutating the source, scaling
//     contributions to a target savings rate, and previewing tax/NI impact.
//   - Tax Oracles: UK income tax and National Insurance calculators driven by
//     a versioned tax constants table.
//
// This package serves as the foundational logic for the `hfp` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package planner
