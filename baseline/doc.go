// Package baseline estimates the slowly varying background under an
// absorbance spectrum.
//
// The estimator is the asymmetric least squares (ALS) smoother of Eilers
// (2003): a Whittaker smoother whose residual weights are updated
// asymmetrically so the fitted curve settles under the peaks instead of
// through them.
//
// Two knobs control the fit and are worth restating because they are
// physical, user-facing parameters rather than numeric artifacts:
//
//   - p (asymmetry, 0 < p < 1): close to 0 makes the baseline hug the lower
//     envelope of the data aggressively, which is correct for absorption
//     spectra where peaks point up and the baseline should sit below them.
//     Values near 1 invert this behavior.
//   - lambda (smoothness, > 0): the curvature penalty. Larger values produce
//     smoother, more rigid baselines; smaller values let the baseline track
//     noise more closely. Useful values span roughly 1e4 to 1e8.
//
// [Fit] wraps the solver with the optional Savitzky-Golay pre-smoothing pass
// used by the interactive workflow; [Solve] is the bare algorithm.
package baseline
