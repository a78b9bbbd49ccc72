package document

const shineStatement = `Shine
Relevé de compte
Période du 01/02/2024 au 29/02/2024
IBAN : FR76 6940 1000 0112 3456 7890 145
BIC : SHINFRPP
Solde initial 1 000,00 €
Date Date de valeur Libellé Montant
Virements reçus
01.02 01.02.2024 Salary 1 200,00
03.02 03.02.2024 Virement de
ACME SAS
350,00 €
Total des virements reçus 1 550,00 €
Virements émis
05.02 05.02.2024 VirementVers Jean Dupont 200,00 €
Paiements par carte
28.01 02.02.2024 Boulangerie Paul 4,50 €
Page 1 / 2
10.02 10.02.2024 Amazon Marketplace
Page 2 / 2
FR 123456789012
29,99 €
Frais bancaires
15.02 15.02.2024 Abonnement Shine Basic 7,90 €
Solde final 2 307,61 €
`

const qontoStatement = `Qonto
Relevé de transactions
Du 01/01/2024 au 31/01/2024
IBAN : FR76 1695 8000 0112 3456 7890 123
BIC : QNTOFRP1XXX
Date Date de valeur Libellé Montant
02/01 02/01/2024 VIR SEPA RECU DE CLIENT SA + 2 400,00 €
03/01 03/01/2024 CARTE NETFLIX.COM - 13,49 €
05/01 05/01/2024 VIR SEPA EMIS VERS
DUPONT CONSEIL
- 500,00 €
06/01 06/01/2024 Abonnement mensuel
- 9,00 €
08/01 08/01/2024 Ajustement 1,00 €
Sorties
07/01 07/01/2024 Prestation X 20,00 €
Solde de clôture 1 856,51 €
`
